package db

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowStatementThreshold = 200 * time.Millisecond

// statementErrors counts failed SQL statements of every Database by domain
// table. Statements outside a domain table, like migrations, have an empty label.
var statementErrors = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "db_statement_errors_total",
	Help: "Number of SQL statements that returned an error.",
}, []string{"table"})

type tableKey struct{}

// withTable tags the statements run with ctx with the domain table they address.
func withTable(ctx context.Context, table string) context.Context {
	return context.WithValue(ctx, tableKey{}, table)
}

func tableFrom(ctx context.Context) string {
	table, _ := ctx.Value(tableKey{}).(string)

	return table
}

// zerologGorm routes gorm's statement log into the global zerolog logger.
type zerologGorm struct {
	level gormlogger.LogLevel
}

func newGormLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return zerologGorm{level: level}
}

func (l zerologGorm) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return zerologGorm{level: level}
}

func (l zerologGorm) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		log.Info().Msgf(msg, data...)
	}
}

func (l zerologGorm) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		log.Warn().Msgf(msg, data...)
	}
}

func (l zerologGorm) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		log.Error().Msgf(msg, data...)
	}
}

func (l zerologGorm) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	table := tableFrom(ctx)

	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	if failed {
		statementErrors.WithLabelValues(table).Inc()
	}

	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case failed && l.level >= gormlogger.Error:
		sql, rows := fc()
		log.Error().Err(err).Str("table", table).Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("sql statement failed")
	case elapsed > slowStatementThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("slow sql statement")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Trace().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("sql statement")
	}
}
