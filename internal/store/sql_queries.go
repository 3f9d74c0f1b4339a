package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/atlaslife/goalvault/models"
)

// qb is the shared statement builder. SQLite uses ? placeholders.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func insertUserQuery(user models.User) (string, []any, error) {
	return qb.Insert(user.TableName()).
		Columns("username", "password_hash", "net_worth_enc", "created_at").
		Values(user.Username, user.PasswordHash, string(user.EncryptedNetWorth), user.CreatedAt).
		ToSql()
}

func selectUserQuery(username string) (string, []any, error) {
	return qb.Select("username", "password_hash", "net_worth_enc", "created_at").
		From(models.User{}.TableName()).
		Where(sq.Eq{"username": username}).
		ToSql()
}

func selectNetWorthQuery(owner string) (string, []any, error) {
	return qb.Select("net_worth_enc").
		From(models.User{}.TableName()).
		Where(sq.Eq{"username": owner}).
		ToSql()
}

func updateNetWorthQuery(owner string, netWorth models.CipheredPayload) (string, []any, error) {
	return qb.Update(models.User{}.TableName()).
		Set("net_worth_enc", string(netWorth)).
		Where(sq.Eq{"username": owner}).
		ToSql()
}

func selectGoalRecordsQuery(owner string) (string, []any, error) {
	return qb.Select("id", "owner", "payload_enc", "updated_at").
		From(models.GoalRecord{}.TableName()).
		Where(sq.Eq{"owner": owner}).
		OrderBy("updated_at", "id").
		ToSql()
}

func upsertGoalRecordQuery(record models.GoalRecord) (string, []any, error) {
	return qb.Insert(record.TableName()).
		Columns("id", "owner", "payload_enc", "updated_at").
		Values(record.ID, record.Owner, string(record.Payload), record.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET payload_enc = excluded.payload_enc, updated_at = excluded.updated_at WHERE goals.owner = excluded.owner").
		ToSql()
}

func deleteGoalRecordQuery(owner, goalID string) (string, []any, error) {
	return qb.Delete(models.GoalRecord{}.TableName()).
		Where(sq.Eq{"owner": owner}).
		Where(sq.Eq{"id": goalID}).
		ToSql()
}
