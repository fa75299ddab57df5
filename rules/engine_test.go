package rules

import (
	"github.com/antonmedv/expr"
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_compileRule(t *testing.T) {
	t.Run("returns an error if the filter compilation fails", func(t *testing.T) {
		r := Rule{
			Filter: "INVALID UNPARSABLE FILTER",
		}

		crs, err := compileRules([]Rule{r})
		assert.Error(t, err)
		assert.Nil(t, crs)
		assert.Contains(t, err.Error(), "filter compilation:")
	})

	t.Run("returns an error if the filter is not a boolean", func(t *testing.T) {
		_, err := compileRules([]Rule{{Filter: "Name"}})
		assert.Error(t, err)
	})

	t.Run("returns a compiled rule", func(t *testing.T) {
		r := Rule{
			Description: "Dimmers",
			Filter:      `Kind == "dimmer"`,
			Settings:    Settings{DelayStep: "3s"},
		}

		cr, err := compileRules([]Rule{r})
		assert.NoError(t, err)

		assert.Equal(t, r.Description, cr[0].Description)
		assert.NotNil(t, cr[0].Filter)
		assert.Equal(t, r.Settings, cr[0].Settings)
		assert.Nil(t, cr[0].Children)
	})
}

func TestEngine_CompileRules(t *testing.T) {
	t.Run("raises an error if a depended on ruleset is not loaded", func(t *testing.T) {
		e := Engine{
			RuleSets: map[string]RuleSet{
				"one": {
					Name:      "one",
					DependsOn: []string{"two"},
				},
			},
		}

		err := e.CompileRules()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ruleset missing dependency: one->two")
	})

	t.Run("raises an error if there is a circular dependency", func(t *testing.T) {
		e := Engine{
			RuleSets: map[string]RuleSet{
				"one": {
					Name:      "one",
					DependsOn: []string{"two"},
				},
				"two": {
					Name:      "two",
					DependsOn: []string{"one"},
				},
			},
		}

		err := e.CompileRules()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ruleset circular dependency: one->two->one")
	})

	t.Run("raises an error if a rule fails to compile", func(t *testing.T) {
		e := Engine{
			RuleSets: map[string]RuleSet{
				"one": {
					Name: "one",
					Rules: []Rule{
						{
							Description: "this rule",
							Filter:      "INVALID UNPARSABLE FILTER",
						},
					},
				},
			},
		}

		err := e.CompileRules()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ruleset compilation: one: filter compilation:")
	})

	t.Run("compiles dependencies before the rule sets that need them", func(t *testing.T) {
		e := Engine{
			RuleSets: map[string]RuleSet{
				"one": {
					Name:      "one",
					DependsOn: []string{"two"},
					Rules: []Rule{
						{Description: "one", Filter: "true"},
						{
							Description: "two",
							Filter:      "true",
							Children:    []Rule{{Description: "two-one", Filter: "true"}},
						},
					},
				},
				"two": {
					Name:  "two",
					Rules: []Rule{{Description: "three", Filter: "true"}},
				},
			},
		}

		assert.NoError(t, e.CompileRules())

		var descriptions []string
		for _, r := range e.Rules {
			descriptions = append(descriptions, r.Description)
		}

		assert.Equal(t, []string{"three", "one", "two"}, descriptions)
		assert.Equal(t, "two-one", e.Rules[2].Children[0].Description)
	})
}

func TestEngine_Execute(t *testing.T) {
	t.Run("applies settings from all matching rules and their descendants in order", func(t *testing.T) {
		match, err := expr.Compile(`Kind == "socket"`, expr.Env(Input{}), expr.AsBool())
		assert.NoError(t, err)
		nomatch, err := expr.Compile(`Kind == "dimmer"`, expr.Env(Input{}), expr.AsBool())
		assert.NoError(t, err)

		e := Engine{
			Rules: []CompiledRule{
				{
					Description: "dimmer",
					Filter:      nomatch,
					Settings:    Settings{"one": 1},
				},
				{
					Description: "socket",
					Filter:      match,
					Settings:    Settings{"two": 2, "shared": "parent"},
					Children: []CompiledRule{
						{
							Description: "socket child",
							Filter:      match,
							Settings:    Settings{"shared": "child"},
						},
						{
							Description: "dimmer child",
							Filter:      nomatch,
							Settings:    Settings{"three": 3},
						},
					},
				},
				{
					Description: "later socket",
					Filter:      match,
					Settings:    Settings{"two": 22},
				},
			},
		}

		o, err := e.Execute(Input{Kind: "socket"})
		assert.NoError(t, err)

		assert.NotContains(t, o.Settings, "one")
		assert.NotContains(t, o.Settings, "three")
		assert.Equal(t, 22, o.Settings["two"])
		assert.Equal(t, "child", o.Settings["shared"])
		assert.Equal(t, []string{"socket", "socket child", "later socket"}, o.Matched)
	})
}

func TestEngine_LoadReader(t *testing.T) {
	t.Run("loads a yaml rule set", func(t *testing.T) {
		e := New()

		err := e.LoadString(`
name: test
depends_on: [base]
rules:
  - description: Hallway
    filter: Name == "Hall"
    settings:
      BridgeRetries: 5
`)
		assert.NoError(t, err)

		rs := e.RuleSets["test"]
		assert.Equal(t, []string{"base"}, rs.DependsOn)
		assert.Equal(t, `Name == "Hall"`, rs.Rules[0].Filter)

		retries, ok := rs.Rules[0].Settings.Int(BridgeRetries)
		assert.True(t, ok)
		assert.Equal(t, 5, retries)
	})

	t.Run("refuses unnamed and duplicate rule sets", func(t *testing.T) {
		e := New()

		assert.Error(t, e.LoadString("rules: []"))
		assert.NoError(t, e.LoadString("name: one"))
		assert.Error(t, e.LoadString("name: one"))
	})
}
