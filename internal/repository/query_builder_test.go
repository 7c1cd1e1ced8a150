package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder_BuildConditions(t *testing.T) {
	qb := NewQueryBuilder()
	assert.True(t, qb.IsEmpty())

	qb.AddCondition("estimated_price", 1500.0)
	qb.AddContains("product_name", "kursi_50%")

	conditions := qb.BuildConditions(map[string]string{
		"estimated_price": "a.estimated_price",
		"product_name":    "p.name",
	})

	assert.False(t, qb.IsEmpty())
	assert.Equal(t, goqu.Ex{
		"a.estimated_price": 1500.0,
		"p.name":            goqu.Op{"iLike": `%kursi\_50\%%`},
	}, conditions)
}

func TestQueryBuilder_UnknownKeyKeepsName(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("id", 3)

	assert.Equal(t, goqu.Ex{"id": 3}, qb.BuildConditions(nil))
}
