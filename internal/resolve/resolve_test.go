package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity struct {
	id   string
	name string
}

func (e entity) EntityName() string { return e.name }

func counting(items []entity, calls *int) ListFunc[entity] {
	return func(context.Context) ([]entity, error) {
		*calls++
		return items, nil
	}
}

func TestByNameFirstExactMatch(t *testing.T) {
	calls := 0
	list := counting([]entity{{"1", "Bug"}, {"2", "Task"}, {"3", "Bug"}}, &calls)

	got, err := ByName(context.Background(), KindIssueType, "Bug", list)
	require.NoError(t, err)
	assert.Equal(t, "1", got.id)
	assert.Equal(t, 1, calls)
}

func TestByNameIsCaseSensitive(t *testing.T) {
	calls := 0
	list := counting([]entity{{"4", "Start Progress"}}, &calls)

	_, err := ByName(context.Background(), KindTransition, "start progress", list)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "start progress is not a valid transition, try another action.", nf.Message())
	assert.Equal(t, []string{"Start Progress"}, nf.Candidates)
}

func TestByNameNoSubstringFallback(t *testing.T) {
	calls := 0
	list := counting([]entity{{"7", "JavaScript"}}, &calls)

	_, err := ByName(context.Background(), KindComponent, "Java", list)
	assert.EqualError(t, err, `No component found, try --component "JavaScript".`)
}

func TestNotFoundHintPerKind(t *testing.T) {
	cases := map[Kind]string{
		KindIssueType: `No issue type found, try --type "Bug".`,
		KindProject:   `No project found, try --project "LPS".`,
		KindComponent: `No component found, try --component "JavaScript".`,
		KindPriority:  `No priority found, try --priority "Major".`,
		KindVersion:   `No version found, try --version "7.0.0".`,
		KindUser:      `No user found, try --assignee "username".`,
	}

	for kind, want := range cases {
		t.Run(string(kind), func(t *testing.T) {
			calls := 0
			_, err := ByName(context.Background(), kind, "missing", counting(nil, &calls))
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, want, nf.Message())
			assert.Equal(t, kind, nf.Kind)
		})
	}
}

func TestByNameEmptyNameSkipsListing(t *testing.T) {
	calls := 0
	_, err := ByName(context.Background(), KindComponent, "", counting([]entity{{"7", "JavaScript"}}, &calls))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 0, calls)
}

func TestOptionalSkipsLookupWhenUnset(t *testing.T) {
	calls := 0
	_, ok, err := Optional(context.Background(), KindPriority, "", counting([]entity{{"3", "Major"}}, &calls))

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, calls)
}

func TestOptionalResolvesWhenSet(t *testing.T) {
	calls := 0
	got, ok, err := Optional(context.Background(), KindPriority, "Major", counting([]entity{{"3", "Major"}}, &calls))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", got.id)

	_, _, err = Optional(context.Background(), KindPriority, "Trivial", counting(nil, &calls))
	assert.EqualError(t, err, `No priority found, try --priority "Major".`)
}

func TestByNameNoCaching(t *testing.T) {
	calls := 0
	list := counting([]entity{{"1", "Bug"}}, &calls)

	for i := 0; i < 2; i++ {
		_, err := ByName(context.Background(), KindIssueType, "Bug", list)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestByNameWrapsListErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := ByName(context.Background(), KindProject, "LPS", func(context.Context) ([]entity, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Names([]entity{{"1", "a"}, {"2", "b"}}))
}
