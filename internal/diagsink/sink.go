package diagsink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
)

// BuildReport is one compilation unit's build outcome (the supplemented design's
// diagnostic sink: "counts of unresolved references, structural errors,
// copybook expansion depth reached").
type BuildReport struct {
	RunID uuid.UUID
	Path string
	CompilationUnit string
	UnresolvedCount int
	DuplicateCount int
	StructuralErrors int
	CopybookDepthReached int
	BuiltAt time.Time
}

// Sink writes BuildReports to a configured database, branching its SQL by
// driver type the same way sqlcode.Exists/sqlcode.Drop do.
type Sink struct {
	db *sql.DB
}

// New wraps an already-opened database handle (see Open) as a Sink.
func New(db *sql.DB) *Sink { return &Sink{db: db} }

// NewRunID mints a fresh run-correlation id. It never becomes ASG node
// identity (internal/asg.Builder.nextID stays a deterministic sequence);
// this id only groups every BuildReport from one CLI invocation together.
func NewRunID() (uuid.UUID, error) {
	return uuid.NewV4()
}

// EnsureSchema creates the report table if it does not already exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	switch s.db.Driver().(type) {
	case *mssql.Driver:
		_, err := s.db.ExecContext(ctx, `
			if object_id('cobolasg_build_report', 'U') is null
			create table cobolasg_build_report (
				run_id uniqueidentifier not null,
				path nvarchar(1024) not null,
				compilation_unit nvarchar(64) not null,
				unresolved_count int not null,
				duplicate_count int not null,
				structural_errors int not null,
				copybook_depth_reached int not null,
				built_at datetime2 not null
			)`)
		return err
	case *stdlib.Driver:
		_, err := s.db.ExecContext(ctx, `
			create table if not exists cobolasg_build_report (
				run_id uuid not null,
				path text not null,
				compilation_unit text not null,
				unresolved_count int not null,
				duplicate_count int not null,
				structural_errors int not null,
				copybook_depth_reached int not null,
				built_at timestamptz not null
			)`)
		return err
	default:
		return fmt.Errorf("diagsink: unrecognized driver %T", s.db.Driver())
	}
}

// Record persists one BuildReport.
func (s *Sink) Record(ctx context.Context, r BuildReport) error {
	driver := s.db.Driver()

	switch driver.(type) {
	case *mssql.Driver:
		qs := `insert into cobolasg_build_report
			(run_id, path, compilation_unit, unresolved_count, duplicate_count, structural_errors, copybook_depth_reached, built_at)
			values (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`
		_, err := s.db.ExecContext(ctx, qs,
			r.RunID.String(), r.Path, r.CompilationUnit, r.UnresolvedCount,
			r.DuplicateCount, r.StructuralErrors, r.CopybookDepthReached, r.BuiltAt)
		return err
	case *stdlib.Driver:
		qs := `insert into cobolasg_build_report
			(run_id, path, compilation_unit, unresolved_count, duplicate_count, structural_errors, copybook_depth_reached, built_at)
			values (@run_id, @path, @compilation_unit, @unresolved_count, @duplicate_count, @structural_errors, @copybook_depth_reached, @built_at)`
		_, err := s.db.ExecContext(ctx, qs, pgx.NamedArgs{
			"run_id": r.RunID.String(),
			"path": r.Path,
			"compilation_unit": r.CompilationUnit,
			"unresolved_count": r.UnresolvedCount,
			"duplicate_count": r.DuplicateCount,
			"structural_errors": r.StructuralErrors,
			"copybook_depth_reached": r.CopybookDepthReached,
			"built_at": r.BuiltAt,
		})
		return err
	default:
		return fmt.Errorf("diagsink: unrecognized driver %T", driver)
	}
}

// Close releases the underlying database handle.
func (s *Sink) Close() error { return s.db.Close() }
