package store

import (
	"context"
	"time"
)

const contactColumns = "id, name, email, phone, subject, message, created_at"

// CreateContactMessageParams holds the values for CreateContactMessage.
type CreateContactMessageParams struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// CreateContactMessage stores a public contact form submission.
func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+contactColumns,
		arg.Name, arg.Email, arg.Phone, arg.Subject, arg.Message, arg.CreatedAt)
	var m ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt)
	return m, err
}

// ListContactMessagesParams holds the values for ListContactMessages.
type ListContactMessagesParams struct {
	Limit  int64
	Offset int64
}

// ListContactMessages returns submissions, newest first.
func (q *Queries) ListContactMessages(ctx context.Context, arg ListContactMessagesParams) ([]ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CountContactMessages returns the total number of submissions.
func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contact_messages").Scan(&n)
	return n, err
}

// DeleteContactMessage removes a submission.
func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
	return err
}
