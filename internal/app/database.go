package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/contest-wheel/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbPingTimeout        = 5 * time.Second
	dbConnMaxIdleTime    = 5 * time.Minute
	maxTracedQueryLength = 512
)

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// Matches the VALUES list of a multi-row insert, e.g. a ledger rebuild
	// chunk of up to a thousand ticket rows.
	bulkValuesRegex = regexp.MustCompile(`VALUES \([^()]*\)(?:, \([^()]*\))+`)
)

// databaseTarget is the connection string handed to lib/pq together with the
// database name reported on DB spans.
type databaseTarget struct {
	DSN  string
	Name string
}

// newDatabaseTarget accepts both URL and keyword/value DSNs. It tags the
// session with the service name and, when configured, disables binary
// results for prepared statements so pgbouncer in transaction mode works.
func newDatabaseTarget(cfg config.Config) databaseTarget {
	raw := strings.TrimSpace(cfg.DBURL)
	params := map[string]string{}
	if cfg.DBDisablePreparedBinary {
		params["disable_prepared_binary_result"] = "yes"
	}
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		params["application_name"] = name
	}

	if parsed, err := url.Parse(raw); err == nil && parsed != nil && parsed.Scheme != "" {
		query := parsed.Query()
		for key, value := range params {
			if query.Get(key) == "" {
				query.Set(key, value)
			}
		}
		parsed.RawQuery = query.Encode()
		return databaseTarget{
			DSN:  parsed.String(),
			Name: strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")),
		}
	}

	target := databaseTarget{DSN: raw}
	present := map[string]bool{}
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		present[key] = true
		if key == "dbname" {
			target.Name = strings.Trim(value, `"'`)
		}
	}
	for _, key := range []string{"application_name", "disable_prepared_binary_result"} {
		value, ok := params[key]
		if !ok || present[key] {
			continue
		}
		target.DSN = strings.TrimSpace(target.DSN + " " + key + "=" + value)
	}
	return target
}

// formatQueryForSpan collapses whitespace and folds multi-row VALUES lists
// into a row count so bulk ledger inserts stay readable on the span.
func formatQueryForSpan(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = bulkValuesRegex.ReplaceAllStringFunc(normalized, func(values string) string {
		rows := strings.Count(values, "(")
		first := values[len("VALUES ") : strings.Index(values, ")")+1]
		return "VALUES " + first + " /* " + strconv.Itoa(rows) + " rows */"
	})
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func openDatabase(cfg config.Config) (*sqlx.DB, databaseTarget, error) {
	target := newDatabaseTarget(cfg)

	db, err := otelsqlx.Open(
		"postgres",
		target.DSN,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(target.Name),
		otelsql.WithQueryFormatter(formatQueryForSpan),
	)
	if err != nil {
		return nil, target, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, target, fmt.Errorf("ping database: %w", err)
	}

	return db, target, nil
}
