// Package interactive collects wizard answers from a terminal with survey
// prompts, or from defaults when prompting is disabled.
package interactive

import (
	"context"
	"fmt"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
	"wizard-cli/internal/logging"
	"wizard-cli/internal/wizard"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl+C.
var ErrInterrupted = terminal.InterruptErr

// Asker asks a single prompt and writes the answer into response.
// survey.AskOne is the production implementation.
type Asker func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// Driver walks a wizard config and records an answer for every question
// that isn't answered yet.
type Driver struct {
	ask         Asker
	interactive bool
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithAsker replaces survey.AskOne, mainly for tests.
func WithAsker(ask Asker) DriverOption {
	return func(d *Driver) { d.ask = ask }
}

// NewDriver creates a driver. With interactive false nothing is prompted:
// every question takes its default or the run fails.
func NewDriver(interactive bool, opts ...DriverOption) *Driver {
	d := &Driver{ask: survey.AskOne, interactive: interactive}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsTerminal reports whether both stdin and stdout are attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Run visits sections and questions in declaration order. Answers are
// written into the live section stores as they are collected, so a
// cancelled run leaves the answers gathered so far in place.
func (d *Driver) Run(ctx context.Context, cfg *wizard.Config) error {
	log := logging.FromContext(ctx)

	for _, section := range cfg.Sections() {
		log.V(1).Info("starting section", "section", section.Name())

		for _, q := range section.Questions() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if section.HasAnswer(q.Name()) {
				log.V(1).Info("keeping preset answer", "question", q.String())
				continue
			}
			if err := d.collect(ctx, section, q); err != nil {
				return fmt.Errorf("question %s: %w", q, err)
			}
		}
	}
	return nil
}

func (d *Driver) collect(ctx context.Context, section *wizard.Section, q *wizard.Question) error {
	log := logging.FromContext(ctx).WithValues("question", q.String())

	ignore, err := q.Ignore()
	if err != nil {
		return err
	}
	def, err := q.Default()
	if err != nil {
		return err
	}

	if ignore {
		if def != nil {
			section.Answers()[q.Name()] = def
			log.V(1).Info("accepted default", "value", def)
		} else {
			log.V(1).Info("skipped question")
		}
		return nil
	}

	if !d.interactive {
		if def == nil {
			return &wizard.Error{
				Type:     wizard.ErrMissingAnswer,
				Section:  section.Name(),
				Question: q.Name(),
				Message:  "no default and prompting is disabled",
			}
		}
		section.Answers()[q.Name()] = def
		log.V(1).Info("accepted default", "value", def, "interactive", false)
		return nil
	}

	value, err := d.prompt(q, def)
	if err != nil {
		return err
	}
	section.Answers()[q.Name()] = value
	return nil
}

// prompt asks q with the survey prompt matching its kind and returns the
// answer in the kind's Go type.
func (d *Driver) prompt(q *wizard.Question, def any) (any, error) {
	opts := []survey.AskOpt{survey.WithValidator(validator(q, def))}

	switch q.Kind() {
	case wizard.KindText:
		p := &survey.Input{Message: q.Message()}
		if s, ok := def.(string); ok && q.ShowDefault() {
			p.Default = s
		}
		var answer string
		if err := d.ask(p, &answer, opts...); err != nil {
			return nil, err
		}
		return hiddenDefault(q, def, answer), nil

	case wizard.KindPassword:
		if r, _ := utf8.DecodeRuneInString(q.Echo()); r != utf8.RuneError {
			opts = append(opts, survey.WithHideCharacter(r))
		}
		var answer string
		if err := d.ask(&survey.Password{Message: q.Message()}, &answer, opts...); err != nil {
			return nil, err
		}
		return hiddenDefault(q, def, answer), nil

	case wizard.KindEditor:
		p := &survey.Editor{Message: q.Message(), HideDefault: !q.ShowDefault()}
		if s, ok := def.(string); ok {
			p.Default = s
		}
		var answer string
		if err := d.ask(p, &answer, opts...); err != nil {
			return nil, err
		}
		return answer, nil

	case wizard.KindConfirm:
		p := &survey.Confirm{Message: q.Message()}
		if b, ok := def.(bool); ok {
			p.Default = b
		}
		var answer bool
		if err := d.ask(p, &answer, opts...); err != nil {
			return nil, err
		}
		return answer, nil

	case wizard.KindList:
		p := &survey.Select{Message: q.Message(), Options: q.Choices()}
		if s, ok := def.(string); ok && slices.Contains(p.Options, s) {
			p.Default = s
		}
		var answer string
		if err := d.ask(p, &answer, opts...); err != nil {
			return nil, err
		}
		return answer, nil

	case wizard.KindCheckbox:
		p := &survey.MultiSelect{Message: q.Message(), Options: q.Choices()}
		if selected, ok := def.([]string); ok {
			var known []string
			for _, s := range selected {
				if slices.Contains(p.Options, s) {
					known = append(known, s)
				}
			}
			if len(known) > 0 {
				p.Default = known
			}
		}
		answer := []string{}
		if err := d.ask(p, &answer, opts...); err != nil {
			return nil, err
		}
		return answer, nil

	default:
		return nil, fmt.Errorf("no prompt for kind %s", q.Kind())
	}
}

// hiddenDefault substitutes the default for an empty answer when the
// prompt didn't show it.
func hiddenDefault(q *wizard.Question, def any, answer string) any {
	if answer == "" && !q.ShowDefault() {
		if s, ok := def.(string); ok {
			return s
		}
	}
	return answer
}

// validator adapts Question.Validate to survey, translating survey's
// option answers back into plain strings.
func validator(q *wizard.Question, def any) survey.Validator {
	return func(ans any) error {
		var value any
		switch v := ans.(type) {
		case core.OptionAnswer:
			value = v.Value
		case []core.OptionAnswer:
			values := make([]string, len(v))
			for i, o := range v {
				values[i] = o.Value
			}
			value = values
		case string:
			value = hiddenDefault(q, def, v)
		default:
			value = ans
		}

		if !q.Validate(value) {
			return fmt.Errorf("%v is not a valid answer for %s", value, q.Name())
		}
		return nil
	}
}
