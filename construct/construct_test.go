package construct

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

type personState struct {
	typ  string
	id   string
	tags []string
}

type person struct {
	typ  string
	id   string
	tags []string
}

func personRecipe() Recipe[personState, *person] {
	return Recipe[personState, *person]{
		Rules: conformance.EntityRules(caliper.EntityPerson),
		Clone: func(s personState) personState {
			s.tags = append([]string(nil), s.tags...)
			return s
		},
		Defaults: func(s *personState) { s.typ = caliper.EntityPerson.URI() },
		Candidate: func(s *personState) conformance.Candidate {
			return conformance.Candidate{Type: s.typ, ID: s.id}
		},
		Freeze: func(s personState) *person {
			return &person{typ: s.typ, id: s.id, tags: s.tags}
		},
	}
}

type recordingObserver struct {
	variants []string
	reports  []conformance.Report
	errs     []error
}

func (o *recordingObserver) ObserveBuild(variant string, report conformance.Report, err error) {
	o.variants = append(o.variants, variant)
	o.reports = append(o.reports, report)
	o.errs = append(o.errs, err)
}

func TestBuildSuccess(t *testing.T) {
	var acc Accumulator[personState]
	acc.Set(func(s *personState) { s.id = "https://example.edu/users/554433" })

	obs := &recordingObserver{}
	p, err := Build(&acc, personRecipe(), obs)

	require.NoError(t, err)
	assert.Equal(t, caliper.EntityPerson.URI(), p.typ)
	assert.Equal(t, "https://example.edu/users/554433", p.id)
	assert.True(t, acc.Finalized())
	require.Len(t, obs.errs, 1)
	assert.NoError(t, obs.errs[0])
	assert.Equal(t, "Person", obs.variants[0])
	assert.True(t, obs.reports[0].Valid())
}

func TestBuildFailureYieldsNoValue(t *testing.T) {
	var acc Accumulator[personState]

	p, err := Build(&acc, personRecipe(), nil)

	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, conformance.ErrNonConformant))
	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.True(t, report.Has(conformance.RuleID))
}

func TestBuildCannotBeReused(t *testing.T) {
	var acc Accumulator[personState]
	acc.Set(func(s *personState) { s.id = "urn:p" })

	_, err := Build(&acc, personRecipe(), nil)
	require.NoError(t, err)

	p, err := Build(&acc, personRecipe(), nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestSetterErrorSkipsValidation(t *testing.T) {
	var acc Accumulator[personState]
	syntax := errors.New("bad key")
	acc.Reject(syntax)
	acc.Reject(errors.New("second"))

	obs := &recordingObserver{}
	_, err := Build(&acc, personRecipe(), obs)

	assert.Same(t, syntax, err)
	require.Len(t, obs.reports, 1)
	assert.Empty(t, obs.reports[0].Violations())
}

func TestSetAfterFinalizeIsIgnored(t *testing.T) {
	var acc Accumulator[personState]
	acc.Set(func(s *personState) {
		s.id = "urn:p"
		s.tags = []string{"a"}
	})

	p, err := Build(&acc, personRecipe(), nil)
	require.NoError(t, err)

	acc.Set(func(s *personState) {
		s.id = "urn:changed"
		s.tags[0] = "changed"
	})
	acc.Reject(errors.New("late"))

	assert.Equal(t, "urn:p", p.id)
	assert.Equal(t, []string{"a"}, p.tags)
	assert.NoError(t, acc.Err())
}

func TestSnapshotIsIsolatedFromConcurrentSetters(t *testing.T) {
	var acc Accumulator[personState]
	acc.Set(func(s *personState) { s.id = "urn:p" })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				acc.Set(func(s *personState) { s.tags = append(s.tags, "t") })
			}
		}()
	}

	p, err := Build(&acc, personRecipe(), nil)
	wg.Wait()

	require.NoError(t, err)
	n := len(p.tags)
	acc.Set(func(s *personState) { s.tags = append(s.tags, "late") })
	assert.Len(t, p.tags, n)
}
