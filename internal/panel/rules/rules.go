package rules

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// ErrNoExpression is returned for a rule with an empty expression.
var ErrNoExpression = errors.New("expression must not be empty")

// Rule accepts a value for one entry when its expression evaluates to true.
//
// Expressions see two variables: value, the text being validated, and
// entry, the entry id. Any expr-lang builtin may be used:
//
//	len(trim(value)) > 0
//	value matches "^[0-9]+$" && int(value) <= 65535
type Rule struct {
	Entry   string `yaml:"entry"`
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

// File is the YAML layout of a rules file.
type File struct {
	Rules []Rule `yaml:"rules"`
}

type compiled struct {
	rule    Rule
	program *vm.Program
}

// Set holds compiled rules grouped by entry id.
type Set struct {
	byEntry map[string][]compiled
}

// Compile compiles every rule. The first invalid rule fails the whole set.
func Compile(rules []Rule) (*Set, error) {
	set := &Set{byEntry: map[string][]compiled{}}
	for i, r := range rules {
		if r.Entry == "" {
			return nil, fmt.Errorf("rule %d: entry must not be empty", i)
		}
		if r.Expr == "" {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Entry, ErrNoExpression)
		}
		program, err := expr.Compile(r.Expr,
			expr.Env(environment("", "")),
			expr.AsBool(),
		)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Entry, err)
		}
		if r.Message == "" {
			r.Message = "Invalid value"
		}
		set.byEntry[r.Entry] = append(set.byEntry[r.Entry], compiled{rule: r, program: program})
	}
	return set, nil
}

// Parse compiles the rules in a YAML document.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	return Compile(f.Rules)
}

// Load reads and compiles a rules file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}

// Validate runs the rules for entryID in file order and returns the
// message of the first rule that rejects value, or "".
// A rule whose expression fails at run time rejects the value.
func (s *Set) Validate(entryID, value string) string {
	if s == nil {
		return ""
	}
	env := environment(entryID, value)
	for _, c := range s.byEntry[entryID] {
		out, err := expr.Run(c.program, env)
		if err != nil {
			return c.rule.Message
		}
		if ok, _ := out.(bool); !ok {
			return c.rule.Message
		}
	}
	return ""
}

// Validator returns a validation function for entryID, or nil when no
// rule targets it.
func (s *Set) Validator(entryID string) func(string) string {
	if s == nil || len(s.byEntry[entryID]) == 0 {
		return nil
	}
	return func(value string) string {
		return s.Validate(entryID, value)
	}
}

// Chain returns a validator running base first, then the rules for
// entryID. Either may be absent.
func (s *Set) Chain(entryID string, base func(string) string) func(string) string {
	extra := s.Validator(entryID)
	switch {
	case extra == nil:
		return base
	case base == nil:
		return extra
	}
	return func(value string) string {
		if msg := base(value); msg != "" {
			return msg
		}
		return extra(value)
	}
}

// Entries lists the entry ids that have rules.
func (s *Set) Entries() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.byEntry))
	for id := range s.byEntry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func environment(entryID, value string) map[string]any {
	return map[string]any{
		"entry": entryID,
		"value": value,
	}
}
