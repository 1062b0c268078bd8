package payload

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, n *Node) string {
	t.Helper()
	data, err := json.Marshal(n)
	require.NoError(t, err)
	return string(data)
}

func TestMarshalKeepsInsertionOrder(t *testing.T) {
	n := Object().
		Set("summary", String("X")).
		Set("issuetype", WithID("1")).
		Set("components", Array(WithID("7"))).
		Set("flag", Scalar(true)).
		Set("empty", Null())

	assert.Equal(t, `{"summary":"X","issuetype":{"id":"1"},"components":[{"id":"7"}],"flag":true,"empty":null}`, encode(t, n))
}

func TestSetPathCreatesObjects(t *testing.T) {
	n := Object()
	n.SetPath("fields.assignee.name", String("jdoe"))
	n.SetPath("fields.summary", String("X"))

	assert.Equal(t, "jdoe", n.Lookup("fields.assignee.name").Value())
	assert.Equal(t, `{"fields":{"assignee":{"name":"jdoe"},"summary":"X"}}`, encode(t, n))
}

func TestLookupIndexesArrays(t *testing.T) {
	n := Object().Set("update", Object().Set("comment", Array(Object().SetPath("add.body", String("hi")))))

	assert.Equal(t, "hi", n.Lookup("update.comment.0.add.body").Value())
	assert.Nil(t, n.Lookup("update.comment.1.add.body"))
	assert.Nil(t, n.Lookup("update.comment.x"))
}

func TestPruneRemovesEmptyLeavesAndContainers(t *testing.T) {
	n := Object().
		Set("summary", String("")).
		Set("description", String("kept")).
		Set("assignee", Object().Set("name", String(""))).
		Set("components", Array(Object().Set("id", Null()))).
		Set("priority", WithID("3")).
		Set("count", Scalar(0))

	Prune(n)

	assert.Equal(t, `{"description":"kept","priority":{"id":"3"},"count":0}`, encode(t, n))
}

func TestPruneKeepsNonEmptyNestedObjects(t *testing.T) {
	n := Object().Set("fields", Object().
		Set("customfield_1", Object().Set("child", Object().Set("value", String("a")))).
		Set("labels", Array(String("x"), String(""))))

	Prune(n)

	assert.Equal(t, "a", n.Lookup("fields.customfield_1.child.value").Value())
	assert.Equal(t, 1, n.Lookup("fields.labels").Len())
}

func TestPruneIsIdempotent(t *testing.T) {
	build := func() *Node {
		return Object().Set("fields", Object().
			Set("summary", String("")).
			Set("assignee", Named("jdoe")).
			Set("components", Array(WithID(""))).
			Set("versions", Array(WithID("9"), Null())).
			Set("reporter", Null()))
	}

	once := encode(t, Prune(build()))
	twice := encode(t, Prune(Prune(build())))

	assert.Equal(t, once, twice)
	assert.Equal(t, `{"fields":{"assignee":{"name":"jdoe"},"versions":[{"id":"9"}]}}`, once)
}

func TestExpandRewritesStringLeaves(t *testing.T) {
	n := Object().
		Set("body", String("hello")).
		Set("nested", Array(String("a"), Scalar(3), Object().Set("x", String("b"))))

	Expand(n, strings.ToUpper)

	assert.Equal(t, `{"body":"HELLO","nested":["A",3,{"x":"B"}]}`, encode(t, n))
}

func TestSetOnScalarPanics(t *testing.T) {
	assert.Panics(t, func() { String("x").Set("k", Null()) })
}
