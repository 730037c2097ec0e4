package infra

import (
	"fmt"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, migrates the schema and applies the
// idempotent SQL patches GORM tags cannot express.
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

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Salon{},
		&model.TipoMaquina{},
		&model.Maquina{},
		&model.Puesto{},
		&model.Usuario{},
		&model.UsuarioSalon{},
		&model.Recaudacion{},
		&model.RecaudacionMaquina{},
		&model.RecaudacionFichero{},
		&model.MaquinaExcelMap{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs statements that must hold on every start. Each one
// is a no-op when already applied.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// The composite unique index treats NULL puesto_id values as distinct;
		// machines without seats still get one row per record.
		{"unique machine row without seat", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_recaudacion_maquina_sin_puesto
  ON recaudacion_maquinas (recaudacion_id, maquina_id)
  WHERE puesto_id IS NULL`},
		{"one number per seat of a machine", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_puesto_maquina_numero
  ON puestos (maquina_id, numero_puesto)`},
		{"period end not before start", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_recaudacion_periodo') THEN
    ALTER TABLE recaudaciones
      ADD CONSTRAINT chk_recaudacion_periodo CHECK (fecha_fin >= fecha_inicio);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
