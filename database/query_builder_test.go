package database

import (
	"intake/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder_AddCondition(t *testing.T) {
	qb := NewQueryBuilder()

	qb.AddCondition(columnStatus, models.StatusPending)

	assert.Equal(t, "WHERE status = $1", qb.WhereClause())
	assert.Equal(t, []interface{}{models.StatusPending}, qb.Args())
}

func TestQueryBuilder_StatusAndSearch(t *testing.T) {
	qb := NewQueryBuilder()

	qb.AddCondition(columnStatus, models.StatusAccepted)
	qb.AddFullTextSearch("mobile & app")

	whereClause := qb.WhereClause()
	assert.True(t, strings.HasPrefix(whereClause, "WHERE status = $1 AND "))
	assert.Contains(t, whereClause, searchDocument)
	assert.Contains(t, whereClause, "to_tsquery('english', $2)")
	assert.Equal(t, []interface{}{models.StatusAccepted, "mobile & app"}, qb.Args())
}

func TestQueryBuilder_WhereClause_Empty(t *testing.T) {
	qb := NewQueryBuilder()

	assert.Equal(t, "", qb.WhereClause())
	assert.Empty(t, qb.Args())
}

func TestProjectColumns_ScanOrder(t *testing.T) {
	// scanProject reads columns in this order
	assert.Equal(t,
		"id, name, email, title, type, description, deadline, status, created_at, updated_at",
		projectColumns)
}
