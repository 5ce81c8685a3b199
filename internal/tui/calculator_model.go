// Package tui implements the interactive savings calculator.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/logging"
	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
)

// CalculatorState is the screen the calculator is showing.
type CalculatorState int

const (
	// CalculatorStateEditing is the input form with the live result.
	CalculatorStateEditing CalculatorState = iota
	// CalculatorStateContact asks for the email or phone of a proposal request.
	CalculatorStateContact
	// CalculatorStateAcknowledged shows the proposal acknowledgement.
	CalculatorStateAcknowledged
	// CalculatorStateQuitting indicates the program is exiting.
	CalculatorStateQuitting
)

const (
	calculatorDefaultWidth = 80
	inputCharLimit         = 32
	contactCharLimit       = 64
)

// Estimator runs one recalculation. *savings.Engine satisfies it.
type Estimator interface {
	Estimate(ctx context.Context, req savings.Request) (*savings.Estimate, error)
}

// Acknowledger turns a proposal request into the message to display.
// *proposal.Acknowledger satisfies it.
type Acknowledger interface {
	Acknowledge(ctx context.Context, req proposal.Request) (*proposal.Acknowledgement, error)
}

// CalculatorOptions configures a CalculatorModel.
type CalculatorOptions struct {
	Strategy savings.Strategy
	Service  catalog.Service
	Provider string

	// Initial pre-fills form fields by name.
	Initial map[string]string
}

// CalculatorModel is the Bubble Tea model of one calculator page.
//
// Every change to an input triggers a recalculation. A failed validation
// clears the result and shows the reason until it is dismissed or the input
// becomes valid again.
type CalculatorModel struct {
	ctx          context.Context
	estimator    Estimator
	acknowledger Acknowledger

	strategy savings.Strategy
	service  catalog.Service
	provider string

	fields  []string
	inputs  []textinput.Model
	focused int
	touched bool

	estimate *savings.Estimate
	notice   string

	contact      []textinput.Model
	contactFocus int
	ack          *proposal.Acknowledgement

	state CalculatorState
	width int
	keys  keyMap
	help  help.Model
}

// NewCalculatorModel creates a calculator for opts.Strategy.
func NewCalculatorModel(
	ctx context.Context,
	estimator Estimator,
	acknowledger Acknowledger,
	opts CalculatorOptions,
) *CalculatorModel {
	service := opts.Service
	if service == "" {
		service = catalog.ServiceEnergy
	}

	m := &CalculatorModel{
		ctx:          ctx,
		estimator:    estimator,
		acknowledger: acknowledger,
		strategy:     opts.Strategy,
		service:      service,
		provider:     opts.Provider,
		state:        CalculatorStateEditing,
		width:        calculatorDefaultWidth,
		keys:         defaultKeyMap(),
		help:         help.New(),
	}

	m.fields = append(savings.RequiredFields(opts.Strategy), savings.OptionalFields(opts.Strategy)...)
	m.fields = append(m.fields, savings.DescriptiveFields(opts.Strategy)...)
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, name := range m.fields {
		ti := textinput.New()
		ti.Placeholder = fieldPlaceholder(name)
		ti.CharLimit = inputCharLimit
		ti.Prompt = ""
		if v, ok := opts.Initial[name]; ok {
			ti.SetValue(v)
			m.touched = true
		}
		m.inputs[i] = ti
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}

	m.contact = make([]textinput.Model, 2)
	for i, placeholder := range []string{"email", "phone"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = contactCharLimit
		ti.Prompt = ""
		m.contact[i] = ti
	}

	if m.touched {
		m.recalculate()
	}
	return m
}

// Init implements tea.Model.
func (m *CalculatorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.state = CalculatorStateQuitting
			return m, tea.Quit
		}
		switch m.state {
		case CalculatorStateEditing:
			return m.updateEditing(msg)
		case CalculatorStateContact:
			return m.updateContact(msg)
		case CalculatorStateAcknowledged:
			return m.updateAcknowledged(msg)
		case CalculatorStateQuitting:
			return m, nil
		}
	}

	return m, nil
}

func (m *CalculatorModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.focus(m.focused + 1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.focus(m.focused - 1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if msg.Type == tea.KeyEnter && m.focused < len(m.inputs)-1 {
			m.focus(m.focused + 1)
			return m, nil
		}
		return m, m.requestProposal()
	}

	if len(m.inputs) == 0 {
		return m, nil
	}

	before := m.inputs[m.focused].Value()
	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	if m.inputs[m.focused].Value() != before {
		m.touched = true
		m.recalculate()
	}
	return m, cmd
}

func (m *CalculatorModel) updateContact(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		m.state = CalculatorStateEditing
		return m, nil

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		m.focusContact(1 - m.contactFocus)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submitContact()
	}

	var cmd tea.Cmd
	m.contact[m.contactFocus], cmd = m.contact[m.contactFocus].Update(msg)
	return m, cmd
}

func (m *CalculatorModel) updateAcknowledged(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Dismiss) || msg.Type == tea.KeyEnter {
		m.ack = nil
		m.state = CalculatorStateEditing
	}
	return m, nil
}

func (m *CalculatorModel) focus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
}

func (m *CalculatorModel) focusContact(i int) {
	m.contact[m.contactFocus].Blur()
	m.contactFocus = i
	m.contact[m.contactFocus].Focus()
}

// recalculate replaces the current result with one computed from the form.
func (m *CalculatorModel) recalculate() {
	est, err := m.estimator.Estimate(m.ctx, savings.Request{Strategy: m.strategy, Fields: m.Values()})
	if err != nil {
		m.estimate = nil
		m.notice = noticeFor(err)
		return
	}
	m.estimate = est
	m.notice = ""
}

// requestProposal handles the submit action on the form. Telecom requests
// are acknowledged directly; energy requests need a valid estimate and then
// ask for contact details.
func (m *CalculatorModel) requestProposal() tea.Cmd {
	if m.service == catalog.ServiceTelecom {
		m.acknowledge(proposal.Request{Service: m.service, Provider: m.provider})
		return nil
	}

	m.touched = true
	m.recalculate()
	if m.estimate == nil {
		return nil
	}

	m.state = CalculatorStateContact
	m.focusContact(0)
	return textinput.Blink
}

func (m *CalculatorModel) submitContact() tea.Cmd {
	m.acknowledge(proposal.Request{
		Service:  m.service,
		Provider: m.provider,
		Email:    m.contact[0].Value(),
		Phone:    m.contact[1].Value(),
		Estimate: m.estimate,
	})
	return nil
}

func (m *CalculatorModel) acknowledge(req proposal.Request) {
	ack, err := m.acknowledger.Acknowledge(m.ctx, req)
	if err != nil {
		logging.FromContext(m.ctx).Debug().Ctx(m.ctx).Err(err).Msg("proposal request rejected")
		m.notice = err.Error()
		return
	}
	m.notice = ""
	m.ack = ack
	m.state = CalculatorStateAcknowledged
}

// Values returns the raw form values by field name.
func (m *CalculatorModel) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for i, name := range m.fields {
		values[name] = m.inputs[i].Value()
	}
	return values
}

// Estimate returns the current result, nil when the form is not valid.
func (m *CalculatorModel) Estimate() *savings.Estimate {
	return m.estimate
}

// Notice returns the validation message on display, if any.
func (m *CalculatorModel) Notice() string {
	return m.notice
}

// State returns the current screen.
func (m *CalculatorModel) State() CalculatorState {
	return m.state
}

// Acknowledgement returns the last successful proposal acknowledgement.
func (m *CalculatorModel) Acknowledgement() *proposal.Acknowledgement {
	return m.ack
}

func noticeFor(err error) string {
	var invalid *savings.InvalidNumberError
	if errors.As(err, &invalid) {
		return fieldLabel(invalid.Field) + ": " + invalid.Reason
	}
	return err.Error()
}
