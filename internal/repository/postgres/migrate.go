package postgres

import (
	"context"
	"fmt"
)

// Schema statements, applied in order. Table creation is idempotent so a
// restart against a provisioned store is a no-op.
var schemaOps = []Operation{
	{SQL: `CREATE TABLE IF NOT EXISTS mesas (
		id     BIGINT PRIMARY KEY,
		sillas INT NOT NULL CHECK (sillas > 0),
		estado SMALLINT NOT NULL DEFAULT 0 CHECK (estado IN (0, 1, 2)),
		pos_x  INT NOT NULL DEFAULT 0,
		pos_y  INT NOT NULL DEFAULT 0,
		ancho  INT NOT NULL DEFAULT 0,
		alto   INT NOT NULL DEFAULT 0,
		forma  VARCHAR(20) NOT NULL DEFAULT 'rectangulo'
	)`},
	{SQL: `CREATE TABLE IF NOT EXISTS facturas (
		id        BIGSERIAL PRIMARY KEY,
		folio     VARCHAR(40) NOT NULL UNIQUE,
		id_venta  UUID NOT NULL,
		creado_en TIMESTAMPTZ NOT NULL DEFAULT now()
	)`},
	{SQL: `CREATE TABLE IF NOT EXISTS cuenta (
		id             BIGSERIAL PRIMARY KEY,
		id_mesa        BIGINT NOT NULL REFERENCES mesas(id),
		producto       VARCHAR(100) NOT NULL,
		valor_articulo NUMERIC(10,2) NOT NULL CHECK (valor_articulo >= 0),
		cantidad       INT NOT NULL CHECK (cantidad > 0),
		subtotal       NUMERIC(10,2) NOT NULL,
		id_folio       BIGINT REFERENCES facturas(id),
		observaciones  TEXT
	)`},
	{SQL: `CREATE INDEX IF NOT EXISTS idx_cuenta_tab_abierto
		ON cuenta (id_mesa) WHERE id_folio IS NULL`},
}

// EnsureSchema applies the schema as a single atomic batch at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const op = "postgres.Store.EnsureSchema"

	if err := s.RunOps(ctx, schemaOps); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
