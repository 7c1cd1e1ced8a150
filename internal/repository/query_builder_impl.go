package repository

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
)

type queryBuilderImpl struct {
	conditions map[string]interface{}
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{
		conditions: make(map[string]interface{}),
	}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

// AddContains adds a case-insensitive substring match.
func (q *queryBuilderImpl) AddContains(key string, value string) {
	q.conditions[key] = goqu.Op{"iLike": "%" + EscapeLike(value) + "%"}
}

func (q *queryBuilderImpl) IsEmpty() bool {
	return len(q.conditions) == 0
}

func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range q.conditions {
		if alias, ok := aliases[key]; ok {
			conditions[alias] = value
		} else {
			conditions[key] = value
		}
	}
	return conditions
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards in user input.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}
