package form

import (
	"reflect"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(NewSessionStore())
}

func TestRegistrationFlow(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(101)

	res := e.Start(tgID, FormRegistration)
	if res.Step != StepFirstName {
		t.Fatalf("first step = %s, want %s", res.Step, StepFirstName)
	}

	for _, input := range []string{"Ada", "Lovelace", "36"} {
		res = e.Handle(tgID, input)
		if res.Done {
			t.Fatalf("flow finished early at %q", input)
		}
	}

	res = e.Handle(tgID, "@ada")
	if !res.Done {
		t.Fatal("flow should finish at the contact step")
	}
	want := map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"age":        "36",
		"contact":    "@ada",
	}
	if !reflect.DeepEqual(res.Fields, want) {
		t.Errorf("Fields = %v, want %v", res.Fields, want)
	}
	if _, active := e.Active(tgID); active {
		t.Error("session must be cleared after the terminal step")
	}
}

func TestAgeValidationRepromptsIndefinitely(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(102)

	e.Start(tgID, FormRegistration)
	e.Handle(tgID, "Ada")
	e.Handle(tgID, "Lovelace")

	for _, bad := range []string{"abc", "0", "-3", "120", "999", "12.5"} {
		res := e.Handle(tgID, bad)
		if res.Step != StepAge {
			t.Fatalf("input %q advanced past the age step", bad)
		}
		if res.Prompt != msgAgeInvalid {
			t.Errorf("input %q prompt = %q, want re-prompt", bad, res.Prompt)
		}
	}

	res := e.Handle(tgID, "119")
	if res.Step != StepContact {
		t.Errorf("valid age should advance to contact, got %s", res.Step)
	}
}

func TestBackMovesOneStep(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(103)

	e.Start(tgID, FormIntake)
	e.Handle(tgID, "Client")
	e.Handle(tgID, "Client Co")

	res := e.Back(tgID)
	if res.NoOp || res.Step != StepClientCompany {
		t.Fatalf("Back() = step %s (noop=%v), want %s", res.Step, res.NoOp, StepClientCompany)
	}

	// Re-entering the step overwrites the buffered value.
	e.Handle(tgID, "Client GmbH")
	sess, _ := e.Active(tgID)
	if sess.Fields["client_company"] != "Client GmbH" {
		t.Errorf("buffered value = %q, want overwrite", sess.Fields["client_company"])
	}
}

func TestBackAtFirstStepIsNoOp(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(104)

	e.Start(tgID, FormRegistration)
	res := e.Back(tgID)
	if !res.NoOp {
		t.Fatal("back at the first step must not change state")
	}
	sess, active := e.Active(tgID)
	if !active || sess.Step != StepFirstName {
		t.Errorf("session step = %v, want to stay at %s", sess, StepFirstName)
	}
}

func TestBackWithoutSession(t *testing.T) {
	e := newTestEngine()
	res := e.Back(105)
	if !res.NoOp || res.Prompt != msgNoActiveForm {
		t.Errorf("Back() without session = %+v", res)
	}
}

func TestExitDiscardsBufferedFields(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(106)

	e.Start(tgID, FormIntake)
	e.Handle(tgID, "Client")
	e.Exit(tgID)

	if _, active := e.Active(tgID); active {
		t.Fatal("exit must clear the session")
	}

	// A fresh form starts with an empty buffer.
	e.Start(tgID, FormIntake)
	sess, _ := e.Active(tgID)
	if len(sess.Fields) != 0 {
		t.Errorf("fresh session carries residual fields: %v", sess.Fields)
	}
}

func TestStartDiscardsPreviousForm(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(107)

	e.Start(tgID, FormRegistration)
	e.Handle(tgID, "Ada")
	e.Start(tgID, FormIntake)

	sess, _ := e.Active(tgID)
	if sess.Form != FormIntake || len(sess.Fields) != 0 {
		t.Errorf("restart kept stale state: %+v", sess)
	}
}

func TestFieldEditFlow(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(108)

	res := e.StartFieldEdit(tgID, "REQ-0000002A", "color_palette")
	if res.Step != StepFieldValue {
		t.Fatalf("step = %s", res.Step)
	}

	res = e.Handle(tgID, "warm beige")
	if !res.Done {
		t.Fatal("field edit is single-step")
	}
	if res.RequestID != "REQ-0000002A" || res.Field != "color_palette" {
		t.Errorf("edit context lost: %+v", res)
	}
	if res.Fields["value"] != "warm beige" {
		t.Errorf("value = %q", res.Fields["value"])
	}
}

func TestIntakeFlowAndPayload(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(109)

	inputs := []string{
		"Jane Doe", "Doe Nails", "+49 151 000",
		"Doe Nails Studio", "nail salon", "pastel pink",
		"+49 151 000, @doenails", "Cozy nail studio.", "Mon–Sat 10–19",
		"Hero; Services, Contacts", "photo 1 — hero", "Manicure | classic | 25\nPedicure",
	}

	res := e.Start(tgID, FormIntake)
	for i, in := range inputs {
		res = e.Handle(tgID, in)
		if res.Done != (i == len(inputs)-1) {
			t.Fatalf("Done=%v at input %d", res.Done, i)
		}
	}

	client, site := BuildIntakePayload(res.Fields)
	if client.Name != "Jane Doe" || client.Company != "Doe Nails" {
		t.Errorf("client = %+v", client)
	}
	if !reflect.DeepEqual(site.Structure, []string{"Hero", "Services", "Contacts"}) {
		t.Errorf("structure = %v", site.Structure)
	}
	if len(site.Services) != 2 || site.Services[0].Price != "25" || site.Services[1].Name != "Pedicure" {
		t.Errorf("services = %v", site.Services)
	}
	if site.WorkHours != "Mon–Sat 10–19" {
		t.Errorf("work hours = %q", site.WorkHours)
	}
}

func TestHandleTrimsInput(t *testing.T) {
	e := newTestEngine()
	const tgID = int64(110)

	e.Start(tgID, FormRegistration)
	e.Handle(tgID, "  Ada  ")
	sess, _ := e.Active(tgID)
	if sess.Fields["first_name"] != "Ada" {
		t.Errorf("buffered = %q, want trimmed", sess.Fields["first_name"])
	}
}
