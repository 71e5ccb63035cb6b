package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nexaworks/site-backend/internal/model"
)

// ContactRepository defines the persistence interface for contact messages
// and their admin responses. It is defined here (in repository) to avoid an
// import cycle with service.
type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, int, error)
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)
	UpdateStatus(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) error

	// CreateResponse inserts the response and updates the parent message
	// (responded_at, status, updated_at) as one logical unit.
	CreateResponse(ctx context.Context, resp *model.ContactResponse) error
	ListResponses(ctx context.Context, messageID string) ([]*model.ContactResponse, error)
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactSelectCols = `id, name, email, COALESCE(phone, ''), COALESCE(company, ''),
	service, message, status, priority, source, COALESCE(admin_notes, ''),
	created_at, updated_at, responded_at`

func scanContact(scan func(...any) error) (*model.ContactMessage, error) {
	m := &model.ContactMessage{}
	return m, scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Company,
		&m.Service, &m.Message, &m.Status, &m.Priority, &m.Source,
		&m.AdminNotes, &m.CreatedAt, &m.UpdatedAt, &m.RespondedAt,
	)
}

// Create inserts a new contact_messages row and populates msg.ID and
// timestamps from the database RETURNING clause.
func (r *PgContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, phone, company, service, message, status, priority, source)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		msg.Name, msg.Email, msg.Phone, msg.Company, msg.Service, msg.Message,
		msg.Status, msg.Priority, msg.Source,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
	return classify(err)
}

// List returns contact messages ordered newest first, plus the total count
// matching the filter. Status "" or "all" returns all messages.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, int, error) {
	where := ""
	var args []any

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		args = append(args, status)
		where = "WHERE status = $1"
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contact_messages `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := fmt.Sprintf(`SELECT %s FROM contact_messages %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, contactSelectCols, where, limitArg, offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows.Scan)
		if err != nil {
			return nil, 0, classify(err)
		}
		messages = append(messages, m)
	}
	return messages, total, classify(rows.Err())
}

// GetByID returns one contact message or ErrNotFound.
func (r *PgContactRepository) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contactSelectCols+` FROM contact_messages WHERE id = $1`, id)
	m, err := scanContact(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return m, nil
}

// UpdateStatus sets the status (and admin notes when non-nil) and refreshes
// updated_at, returning the updated row. ErrNotFound when id is absent.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error) {
	var row pgx.Row
	if notes != nil {
		row = r.pool.QueryRow(ctx,
			`UPDATE contact_messages
			 SET status = $2, admin_notes = NULLIF($3, ''), updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+contactSelectCols, id, status, *notes)
	} else {
		row = r.pool.QueryRow(ctx,
			`UPDATE contact_messages
			 SET status = $2, updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+contactSelectCols, id, status)
	}
	m, err := scanContact(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return m, nil
}

// Delete removes a contact message. Responses go with it via the
// ON DELETE CASCADE foreign key.
func (r *PgContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateResponse inserts a contact_responses row and marks the parent as
// responded inside one transaction. If a transaction cannot be started the
// two writes run sequentially with one retry of the parent update; a second
// failure surfaces a PartialWriteError carrying the orphaned response id.
func (r *PgContactRepository) CreateResponse(ctx context.Context, resp *model.ContactResponse) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return r.createResponseSequential(ctx, resp)
	}
	defer tx.Rollback(ctx)

	if err := insertResponse(ctx, tx, resp); err != nil {
		return err
	}
	if err := markResponded(ctx, tx, resp.ContactMessageID); err != nil {
		return err
	}
	return classify(tx.Commit(ctx))
}

// createResponseSequential is the degraded path for pools that cannot open a
// transaction. The response row lands first; if the parent update fails
// twice the caller gets the orphaned id back for reconciliation.
func (r *PgContactRepository) createResponseSequential(ctx context.Context, resp *model.ContactResponse) error {
	if err := insertResponse(ctx, r.pool, resp); err != nil {
		return err
	}
	if err := markResponded(ctx, r.pool, resp.ContactMessageID); err != nil {
		if err = markResponded(ctx, r.pool, resp.ContactMessageID); err != nil {
			return &PartialWriteError{ResponseID: resp.ID, Err: err}
		}
	}
	return nil
}

func insertResponse(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, resp *model.ContactResponse) error {
	err := q.QueryRow(ctx,
		`INSERT INTO contact_responses (contact_message_id, admin_email, response_message, follow_up_action)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 RETURNING id, created_at`,
		resp.ContactMessageID, resp.AdminEmail, resp.ResponseMessage, resp.FollowUpAction,
	).Scan(&resp.ID, &resp.CreatedAt)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23503" {
		// FK violation: the parent message is gone.
		return ErrNotFound
	}
	return classify(err)
}

func markResponded(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, messageID string) error {
	var id string
	err := q.QueryRow(ctx,
		`UPDATE contact_messages
		 SET responded_at = NOW(),
		     status = CASE WHEN status = 'closed' THEN status ELSE 'responded' END,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING id`, messageID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return classify(err)
}

// ListResponses returns all responses for a message, oldest first.
func (r *PgContactRepository) ListResponses(ctx context.Context, messageID string) ([]*model.ContactResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, contact_message_id, admin_email, response_message,
		        COALESCE(follow_up_action, ''), created_at
		 FROM contact_responses
		 WHERE contact_message_id = $1
		 ORDER BY created_at ASC`, messageID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var responses []*model.ContactResponse
	for rows.Next() {
		var cr model.ContactResponse
		if err := rows.Scan(&cr.ID, &cr.ContactMessageID, &cr.AdminEmail,
			&cr.ResponseMessage, &cr.FollowUpAction, &cr.CreatedAt); err != nil {
			return nil, classify(err)
		}
		responses = append(responses, &cr)
	}
	return responses, classify(rows.Err())
}
