package form

import (
	"strconv"
	"strings"

	"github.com/siteforge/intake-system/internal/core/domain"
)

// Form identifies one of the guided forms.
type Form string

const (
	FormRegistration Form = "registration"
	FormIntake       Form = "intake"
	FormAdminLogin   Form = "admin_login"
	FormFieldEdit    Form = "field_edit"
)

// Step is one enumerated form step. Its string value doubles as the key the
// captured value is buffered under.
type Step string

const (
	StepFirstName Step = "first_name"
	StepLastName  Step = "last_name"
	StepAge       Step = "age"
	StepContact   Step = "contact"

	StepClientName    Step = "client_name"
	StepClientCompany Step = "client_company"
	StepClientContact Step = "client_contact"
	StepSiteCompany   Step = "site_company"
	StepBusinessType  Step = "business_type"
	StepColorPalette  Step = "color_palette"
	StepSiteContacts  Step = "site_contacts"
	StepShortDesc     Step = "short_desc"
	StepWorkHours     Step = "work_hours"
	StepStructure     Step = "structure"
	StepImages        Step = "images"
	StepServices      Step = "services"

	StepAdminPassword Step = "password"
	StepFieldValue    Step = "value"
)

var registrationOrder = []Step{StepFirstName, StepLastName, StepAge, StepContact}

var intakeOrder = []Step{
	StepClientName, StepClientCompany, StepClientContact,
	StepSiteCompany, StepBusinessType, StepColorPalette, StepSiteContacts,
	StepShortDesc, StepWorkHours, StepStructure, StepImages, StepServices,
}

// nextStep and prevStep are derived from the step orders. prevStep is the
// predecessor table: total over every step except the first of each form.
var (
	nextStep = make(map[Step]Step)
	prevStep = make(map[Step]Step)
)

func init() {
	for _, order := range [][]Step{registrationOrder, intakeOrder} {
		for i := 1; i < len(order); i++ {
			nextStep[order[i-1]] = order[i]
			prevStep[order[i]] = order[i-1]
		}
	}
}

// Previous returns the step reachable via "back", if any. There is no
// navigation stack: only a single hop is ever remembered.
func Previous(s Step) (Step, bool) {
	p, ok := prevStep[s]
	return p, ok
}

var firstStep = map[Form]Step{
	FormRegistration: StepFirstName,
	FormIntake:       StepClientName,
	FormAdminLogin:   StepAdminPassword,
	FormFieldEdit:    StepFieldValue,
}

// Result is the outcome of one engine interaction. When Done is set the
// session has already been cleared and Fields holds everything captured.
type Result struct {
	Form   Form
	Step   Step
	Prompt string
	NoOp   bool // back requested at the first step

	Done      bool
	Fields    map[string]string
	RequestID string
	Field     string
}

// Engine advances form sessions one inbound text at a time.
type Engine struct {
	sessions *SessionStore
}

func NewEngine(sessions *SessionStore) *Engine {
	return &Engine{sessions: sessions}
}

// Active returns the caller's in-flight session, if any.
func (e *Engine) Active(tgID int64) (*Session, bool) {
	return e.sessions.Get(tgID)
}

// Start opens a fresh session at the form's first step, discarding any
// previous buffer, and returns the first prompt.
func (e *Engine) Start(tgID int64, f Form) Result {
	step := firstStep[f]
	e.sessions.Put(tgID, &Session{Form: f, Step: step, Fields: make(map[string]string)})
	return Result{Form: f, Step: step, Prompt: prompts[step]}
}

// StartFieldEdit opens the one-step edit session for a request field.
func (e *Engine) StartFieldEdit(tgID int64, requestID, field string) Result {
	sess := &Session{
		Form:      FormFieldEdit,
		Step:      StepFieldValue,
		Fields:    make(map[string]string),
		RequestID: requestID,
		Field:     field,
	}
	e.sessions.Put(tgID, sess)
	return Result{Form: FormFieldEdit, Step: StepFieldValue, Prompt: prompts[StepFieldValue]}
}

// Exit unconditionally terminates the session and discards all buffered
// values. Safe to call with no session active.
func (e *Engine) Exit(tgID int64) {
	e.sessions.Clear(tgID)
}

// Back moves the session one step towards the start and re-emits that step's
// prompt. At a form's first step it is a no-op notice, not a state change.
func (e *Engine) Back(tgID int64) Result {
	sess, ok := e.sessions.Get(tgID)
	if !ok {
		return Result{NoOp: true, Prompt: msgNoActiveForm}
	}
	prev, ok := Previous(sess.Step)
	if !ok {
		return Result{Form: sess.Form, Step: sess.Step, NoOp: true, Prompt: msgNoStepBack}
	}
	sess.Step = prev
	e.sessions.Put(tgID, sess)
	return Result{Form: sess.Form, Step: prev, Prompt: prompts[prev]}
}

// Handle feeds one line of input into the active session: the trimmed value
// is buffered under the current step's key and the session advances. The age
// step re-prompts indefinitely on invalid input. At a form's terminal step
// the session is cleared before returning, whatever the caller then does
// with the buffered fields.
func (e *Engine) Handle(tgID int64, text string) Result {
	sess, ok := e.sessions.Get(tgID)
	if !ok {
		return Result{NoOp: true, Prompt: msgNoActiveForm}
	}

	value := strings.TrimSpace(text)
	if sess.Step == StepAge {
		if n, err := strconv.Atoi(value); err != nil || n <= 0 || n >= 120 {
			return Result{Form: sess.Form, Step: sess.Step, Prompt: msgAgeInvalid}
		}
	}
	sess.Fields[string(sess.Step)] = value

	next, ok := nextStep[sess.Step]
	if !ok {
		fields := sess.Fields
		e.sessions.Clear(tgID)
		return Result{
			Form:      sess.Form,
			Step:      sess.Step,
			Done:      true,
			Fields:    fields,
			RequestID: sess.RequestID,
			Field:     sess.Field,
		}
	}

	sess.Step = next
	e.sessions.Put(tgID, sess)
	return Result{Form: sess.Form, Step: next, Prompt: prompts[next]}
}

// BuildIntakePayload assembles the request payload from the intake form's
// buffered values, parsing the two list-valued fields.
func BuildIntakePayload(fields map[string]string) (domain.ClientInfo, domain.SiteSpec) {
	client := domain.ClientInfo{
		Name:    fields[string(StepClientName)],
		Company: fields[string(StepClientCompany)],
		Contact: fields[string(StepClientContact)],
	}
	site := domain.SiteSpec{
		Company:      fields[string(StepSiteCompany)],
		BusinessType: fields[string(StepBusinessType)],
		ColorPalette: fields[string(StepColorPalette)],
		SiteContacts: fields[string(StepSiteContacts)],
		ShortDesc:    fields[string(StepShortDesc)],
		WorkHours:    fields[string(StepWorkHours)],
		Structure:    domain.SplitSections(fields[string(StepStructure)]),
		Images:       fields[string(StepImages)],
		Services:     domain.ParseServiceLines(fields[string(StepServices)]),
	}
	return client, site
}
