package infra

import (
	"fmt"

	"restopos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests
// against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.CajaRegistradora{},
		&model.MetodoPago{},
		&model.Cliente{},
		&model.Arqueo{},
		&model.MovimientoArqueo{},
		&model.ArqueoMontoReal{},
		&model.CashFlow{},
		&model.Transaccion{},
		&model.Menu{},
		&model.Categoria{},
		&model.Producto{},
		&model.Sector{},
		&model.Mesa{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.PedidoPago{},
		&model.Proveedor{},
		&model.PagoProveedor{},
		&model.SuscripcionPush{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement guards its own existence check, so re-running on an
// already-patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open arqueo per register. The service checks before
		// opening, but only this partial index makes the invariant hold under
		// concurrent opens.
		{"unique open arqueo per register", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_arqueos_abierto_por_caja') THEN
    CREATE UNIQUE INDEX uni_arqueos_abierto_por_caja
        ON arqueos (caja_registradora_id)
        WHERE closed_at IS NULL AND deleted = false;
  END IF;
END $$`},
		// Entry removal scans by value match in insertion order.
		{"arqueo entry lookup index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_arqueo_orden') THEN
    CREATE INDEX idx_movimientos_arqueo_orden
        ON arqueo_movimientos (arqueo_id, direccion, created_at, id);
  END IF;
END $$`},
		// One open order per table at a time.
		{"unique open pedido per mesa", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_pedidos_abierto_por_mesa') THEN
    CREATE UNIQUE INDEX uni_pedidos_abierto_por_mesa
        ON pedidos (mesa_id)
        WHERE estado = 'abierto';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
