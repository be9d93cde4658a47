package database

import (
	"fmt"
	"strings"
)

const (
	columnID          = "id"
	columnName        = "name"
	columnEmail       = "email"
	columnTitle       = "title"
	columnType        = "type"
	columnDescription = "description"
	columnDeadline    = "deadline"
	columnStatus      = "status"
	columnCreatedAt   = "created_at"
	columnUpdatedAt   = "updated_at"
	columnSeq         = "seq"
)

// searchDocument must match the expression of idx_project_requests_search
// for the GIN index to be used.
const searchDocument = "to_tsvector('english', title || ' ' || description)"

var projectColumns = strings.Join([]string{
	columnID, columnName, columnEmail, columnTitle, columnType,
	columnDescription, columnDeadline, columnStatus, columnCreatedAt, columnUpdatedAt,
}, ", ")

// QueryBuilder helps build WHERE clauses safely
type QueryBuilder struct {
	conditions []string
	args       []interface{}
	argCount   int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		conditions: []string{},
		args:       []interface{}{},
		argCount:   1,
	}
}

func (qb *QueryBuilder) AddCondition(column string, value interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = $%d", column, qb.argCount))
	qb.args = append(qb.args, value)
	qb.argCount++
}

// AddFullTextSearch expects a query already normalised by SearchQueryParser.
func (qb *QueryBuilder) AddFullTextSearch(tsQuery string) {
	qb.conditions = append(qb.conditions,
		fmt.Sprintf("%s @@ to_tsquery('english', $%d)", searchDocument, qb.argCount))
	qb.args = append(qb.args, tsQuery)
	qb.argCount++
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}
