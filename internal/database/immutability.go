package database

import (
	"log/slog"

	"gorm.io/gorm"

	"voting-service/internal/models"
)

// immutableTables are the ledger-class tables whose rows are write-once.
var immutableTables = map[string]bool{
	models.Vote{}.TableName():          true,
	models.AuditLogEntry{}.TableName(): true,
}

// ViolationHook is called when application code attempts to mutate a
// ledger-class table, after the write has been rejected.
type ViolationHook func(table, operation string)

// RegisterImmutabilityGuard installs gorm callbacks that reject any UPDATE
// or DELETE against ledger-class tables before it reaches the database. The
// triggers installed by InstallImmutabilityTriggers are the backstop for
// anything that bypasses gorm entirely. onViolation may be nil.
func RegisterImmutabilityGuard(db *gorm.DB, onViolation ViolationHook) {
	reject := func(stmt string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if tx.Statement == nil || !immutableTables[tx.Statement.Table] {
				return
			}
			slog.Error("immutable record violation attempted through application code",
				"table", tx.Statement.Table, "operation", stmt)
			tx.AddError(models.ErrImmutableRecord)
			if onViolation != nil {
				onViolation(tx.Statement.Table, stmt)
			}
		}
	}
	db.Callback().Update().Before("gorm:update").Register("voting:immutable_update", reject("update"))
	db.Callback().Delete().Before("gorm:delete").Register("voting:immutable_delete", reject("delete"))
}

// InstallImmutabilityTriggers enforces write-once semantics at the storage
// boundary: paired UPDATE and DELETE triggers on each ledger table raise an
// exception no application bug can get past.
func InstallImmutabilityTriggers(db *gorm.DB) error {
	const fn = `
CREATE OR REPLACE FUNCTION raise_immutable_record() RETURNS trigger AS $$
BEGIN
    RAISE EXCEPTION 'immutable record: % rows cannot be modified or deleted', TG_TABLE_NAME
        USING ERRCODE = 'raise_exception';
END;
$$ LANGUAGE plpgsql`
	if err := db.Exec(fn).Error; err != nil {
		return err
	}

	for table := range immutableTables {
		stmts := []string{
			"DROP TRIGGER IF EXISTS prevent_" + table + "_update ON " + table,
			"CREATE TRIGGER prevent_" + table + "_update BEFORE UPDATE ON " + table +
				" FOR EACH ROW EXECUTE FUNCTION raise_immutable_record()",
			"DROP TRIGGER IF EXISTS prevent_" + table + "_delete ON " + table,
			"CREATE TRIGGER prevent_" + table + "_delete BEFORE DELETE ON " + table +
				" FOR EACH ROW EXECUTE FUNCTION raise_immutable_record()",
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
