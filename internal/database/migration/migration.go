// Package migration creates and upgrades the rental schema on startup.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// steps are idempotent and run on every start, so databases created by older
// releases pick up new columns.
var steps = []migrationStep{
	{
		Name: "create_table_usuarios",
		SQL: `CREATE TABLE IF NOT EXISTS usuarios (
  id            BIGSERIAL   PRIMARY KEY,
  nombre        TEXT        NOT NULL,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  rol           TEXT        NOT NULL DEFAULT 'admin',
  creado_en     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_departamentos",
		SQL: `CREATE TABLE IF NOT EXISTS departamentos (
  id             BIGSERIAL     PRIMARY KEY,
  usuario_id     BIGINT        REFERENCES usuarios (id) ON DELETE SET NULL,
  nombre         TEXT          NOT NULL,
  direccion      TEXT,
  descripcion    TEXT,
  precio_mensual NUMERIC(12,2) NOT NULL CHECK (precio_mensual >= 0),
  estado         TEXT          NOT NULL DEFAULT 'disponible',
  creado_en      TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_inquilinos",
		SQL: `CREATE TABLE IF NOT EXISTS inquilinos (
  id             BIGSERIAL   PRIMARY KEY,
  nombre         TEXT        NOT NULL,
  apellido       TEXT        NOT NULL,
  dni            TEXT        UNIQUE,
  telefono       TEXT,
  correo         TEXT,
  direccion      TEXT,
  creado_en      TIMESTAMPTZ NOT NULL DEFAULT now(),
  actualizado_en TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_contratos",
		SQL: `CREATE TABLE IF NOT EXISTS contratos (
  id              BIGSERIAL     PRIMARY KEY,
  departamento_id BIGINT        NOT NULL REFERENCES departamentos (id),
  inquilino_id    BIGINT        NOT NULL REFERENCES inquilinos (id),
  fecha_inicio    DATE          NOT NULL,
  fecha_fin       DATE,
  monto_mensual   NUMERIC(12,2) NOT NULL CHECK (monto_mensual >= 0),
  dia_vencimiento INT           NOT NULL DEFAULT 5 CHECK (dia_vencimiento BETWEEN 1 AND 31),
  estado          TEXT          NOT NULL DEFAULT 'activo',
  creado_en       TIMESTAMPTZ   NOT NULL DEFAULT now(),
  actualizado_en  TIMESTAMPTZ   NOT NULL DEFAULT now(),
  CHECK (fecha_fin IS NULL OR fecha_fin >= fecha_inicio)
);`,
	},
	{
		Name: "create_table_estados_pago",
		SQL: `CREATE TABLE IF NOT EXISTS estados_pago (
  id          BIGSERIAL PRIMARY KEY,
  nombre      TEXT      NOT NULL UNIQUE,
  descripcion TEXT,
  color_hex   TEXT,
  orden       INT       NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_tipos_pago",
		SQL: `CREATE TABLE IF NOT EXISTS tipos_pago (
  id          BIGSERIAL PRIMARY KEY,
  nombre      TEXT      NOT NULL UNIQUE,
  descripcion TEXT
);`,
	},
	{
		Name: "create_table_pagos",
		SQL: `CREATE TABLE IF NOT EXISTS pagos (
  id               BIGSERIAL     PRIMARY KEY,
  contrato_id      BIGINT        NOT NULL REFERENCES contratos (id),
  periodo          DATE          NOT NULL,
  fecha_pago       DATE,
  monto_esperado   NUMERIC(12,2) NOT NULL CHECK (monto_esperado >= 0),
  monto_pagado     NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (monto_pagado >= 0),
  metodo           TEXT,
  estado_id        BIGINT        REFERENCES estados_pago (id),
  tipo_pago_id     BIGINT        REFERENCES tipos_pago (id),
  notas            TEXT,
  comprobante_pago TEXT,
  recibo_pago      TEXT,
  creado_en        TIMESTAMPTZ   NOT NULL DEFAULT now(),
  actualizado_en   TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "add_columns_pagos_storage_keys",
		SQL: `ALTER TABLE pagos
  ADD COLUMN IF NOT EXISTS comprobante_key TEXT,
  ADD COLUMN IF NOT EXISTS recibo_key      TEXT;`,
	},
	{
		Name: "create_index_pagos_contrato_periodo",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_pagos_contrato_periodo ON pagos (contrato_id, periodo DESC);`,
	},
	{
		Name: "create_index_contratos_fecha_fin",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_contratos_fecha_fin ON contratos (fecha_fin);`,
	},
	{
		Name: "seed_estados_pago",
		SQL: `INSERT INTO estados_pago (nombre, descripcion, color_hex, orden) VALUES
  ('pendiente', 'Pago pendiente', '#F59E0B', 1),
  ('pagado',    'Pago realizado', '#10B981', 2),
  ('atrasado',  'Pago atrasado',  '#EF4444', 3)
ON CONFLICT (nombre) DO NOTHING;`,
	},
}

// EnsureMigrated applies every step in order inside one transaction.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	start := time.Now()
	log = log.With().Str("component", "database").Logger()
	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("applying schema")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("event", "db_migration_failed").Msg("begin transaction")
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Str("event", "db_migration_failed").Msg("commit")
		return fmt.Errorf("commit migration: %w", err)
	}
	log.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema up to date")
	return nil
}
