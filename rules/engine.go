package rules

import (
	"bytes"
	"fmt"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"gopkg.in/yaml.v3"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

const (
	DelayStep     = "DelayStep"
	PollInterval  = "PollInterval"
	RetryInterval = "RetryInterval"
	BridgeRetries = "BridgeRetries"
)

type Engine struct {
	RuleSets map[string]RuleSet
	Rules    []CompiledRule
}

type Rule struct {
	Description string   `yaml:"description"`
	Filter      string   `yaml:"filter"`
	Settings    Settings `yaml:"settings"`
	Children    []Rule   `yaml:"children"`
}

type CompiledRule struct {
	Description string
	Filter      *vm.Program
	Settings    Settings
	Children    []CompiledRule
}

type RuleSet struct {
	Name      string   `yaml:"name"`
	DependsOn []string `yaml:"depends_on"`
	Rules     []Rule   `yaml:"rules"`
}

// Input is the environment rule filters are evaluated in.
type Input struct {
	Kind       string
	Driver     string
	ExternalID string
	Name       string
	HasDim     bool
	HasPower   bool
	HasEnergy  bool
}

type Output struct {
	Settings Settings
	Matched  []string
}

func New() *Engine {
	return &Engine{
		RuleSets: map[string]RuleSet{},
	}
}

func (e *Engine) LoadString(s string) error {
	return e.LoadReader(strings.NewReader(s))
}

func (e *Engine) LoadReader(r io.Reader) error {
	var rs RuleSet

	if err := yaml.NewDecoder(r).Decode(&rs); err != nil {
		return fmt.Errorf("ruleset decode: %w", err)
	}

	if rs.Name == "" {
		return fmt.Errorf("ruleset has no name")
	}

	if _, found := e.RuleSets[rs.Name]; found {
		return fmt.Errorf("ruleset already loaded: %s", rs.Name)
	}

	if e.RuleSets == nil {
		e.RuleSets = map[string]RuleSet{}
	}

	e.RuleSets[rs.Name] = rs
	return nil
}

// LoadFS loads every .yaml file in the file system.
func (e *Engine) LoadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("ruleset read: %s: %w", p, err)
		}

		if err := e.LoadReader(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}

		return nil
	})
}

// CompileRules orders rule sets so that dependencies come first, and so are
// overridden by the rule sets that depend on them.
func (e *Engine) CompileRules() error {
	alreadyLoaded := map[string]bool{}

	var names []string

	for k := range e.RuleSets {
		alreadyLoaded[k] = false
		names = append(names, k)
	}

	sort.Strings(names)

	for _, k := range names {
		if !alreadyLoaded[k] {
			if err := e.compileRuleSet(alreadyLoaded, []string{}, k); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Engine) compileRuleSet(alreadyLoaded map[string]bool, trail []string, name string) error {
	rs, ok := e.RuleSets[name]
	if !ok {
		return fmt.Errorf("ruleset missing dependency: %s->%s", strings.Join(trail, "->"), name)
	}

	trail = append(trail, rs.Name)

	for _, k := range rs.DependsOn {
		for _, t := range trail {
			if k == t {
				return fmt.Errorf("ruleset circular dependency: %s->%s", strings.Join(trail, "->"), k)
			}
		}

		if !alreadyLoaded[k] {
			if err := e.compileRuleSet(alreadyLoaded, trail, k); err != nil {
				return err
			}
		}
	}

	if cr, err := compileRules(rs.Rules); err != nil {
		return fmt.Errorf("ruleset compilation: %s: %w", strings.Join(trail, "->"), err)
	} else {
		e.Rules = append(e.Rules, cr...)
	}

	alreadyLoaded[name] = true

	return nil
}

func compileRules(rules []Rule) ([]CompiledRule, error) {
	var compiledRules []CompiledRule

	for _, rule := range rules {
		cf, err := expr.Compile(rule.Filter, expr.Env(Input{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("filter compilation: %w", err)
		}

		if childCompiledRules, err := compileRules(rule.Children); err != nil {
			return nil, fmt.Errorf("%s: %w", rule.Description, err)
		} else {
			compiledRules = append(compiledRules, CompiledRule{
				Description: rule.Description,
				Filter:      cf,
				Settings:    rule.Settings,
				Children:    childCompiledRules,
			})
		}
	}

	return compiledRules, nil
}

// Execute evaluates every rule in order, descending into the children of those
// that match. Settings from later matches replace earlier ones.
func (e *Engine) Execute(i Input) (Output, error) {
	o := Output{
		Settings: Settings{},
	}

	if err := executeRules(e.Rules, i, &o); err != nil {
		return Output{}, err
	}

	return o, nil
}

func executeRules(rules []CompiledRule, i Input, o *Output) error {
	for _, r := range rules {
		result, err := expr.Run(r.Filter, i)
		if err != nil {
			return fmt.Errorf("filter execution: %s: %w", r.Description, err)
		}

		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		o.Matched = append(o.Matched, r.Description)

		for k, v := range r.Settings {
			o.Settings[k] = v
		}

		if err := executeRules(r.Children, i, o); err != nil {
			return err
		}
	}

	return nil
}
