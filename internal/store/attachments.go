// ABOUTME: Attachment persistence storing file content as BLOBs
// ABOUTME: Listing returns metadata only; GetAttachment loads content for download

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAttachment stores a file against an event and populates its ID
func (s *SQLiteStore) CreateAttachment(ctx context.Context, a *Attachment) error {
	if err := s.eventExists(ctx, a.EventID); err != nil {
		return err
	}
	if a.UploadedOn.IsZero() {
		a.UploadedOn = time.Now().UTC()
	}

	query := `
		INSERT INTO attachments (event_id, file_name, mime_type, file_size, content, uploaded_on)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		a.EventID, a.FileName, a.MimeType, a.FileSize, a.Content,
		a.UploadedOn.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading attachment id: %w", err)
	}

	s.logger.Debug("stored attachment", "attachment_id", a.ID, "event_id", a.EventID,
		"file_name", a.FileName, "size", a.FileSize)
	return nil
}

// GetAttachment retrieves an attachment including its content
func (s *SQLiteStore) GetAttachment(ctx context.Context, id int64) (*Attachment, error) {
	query := `
		SELECT attachment_id, event_id, file_name, mime_type, file_size, content, uploaded_on
		FROM attachments
		WHERE attachment_id = ?
	`

	var a Attachment
	var uploadedOn string
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.EventID, &a.FileName, &a.MimeType, &a.FileSize, &a.Content, &uploadedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting attachment: %w", err)
	}

	a.UploadedOn, err = time.Parse(time.RFC3339, uploadedOn)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded_on: %w", err)
	}
	return &a, nil
}

// DeleteAttachment removes an attachment, clearing any cover reference to it
func (s *SQLiteStore) DeleteAttachment(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE events SET cover_attachment_id = NULL WHERE cover_attachment_id = ?", id); err != nil {
		return fmt.Errorf("clearing cover references: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM attachments WHERE attachment_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ListAttachmentsByEvent returns attachment metadata for an event. Content
// is left nil; callers download individual attachments by ID.
func (s *SQLiteStore) ListAttachmentsByEvent(ctx context.Context, eventID int64) ([]*Attachment, error) {
	query := `
		SELECT attachment_id, event_id, file_name, mime_type, file_size, uploaded_on
		FROM attachments
		WHERE event_id = ?
		ORDER BY attachment_id
	`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*Attachment
	for rows.Next() {
		var a Attachment
		var uploadedOn string
		if err := rows.Scan(&a.ID, &a.EventID, &a.FileName, &a.MimeType, &a.FileSize, &uploadedOn); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		a.UploadedOn, err = time.Parse(time.RFC3339, uploadedOn)
		if err != nil {
			return nil, fmt.Errorf("parsing uploaded_on: %w", err)
		}
		attachments = append(attachments, &a)
	}
	return attachments, rows.Err()
}
