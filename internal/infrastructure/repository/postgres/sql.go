package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

const (
	pqCodeUniqueViolation = "23505"
	// insertChunkSize keeps bulk inserts below the 65535 bind parameter
	// limit of the wire protocol.
	insertChunkSize = 1000
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqCodeUniqueViolation
	}
	return false
}

func nullTimeToPtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func nullInt64ToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullStringValue(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func chunkSizes(total, size int) [][2]int {
	if total <= 0 {
		return nil
	}
	out := make([][2]int, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
