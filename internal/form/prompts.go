package form

// Step prompts, emitted when a step becomes current.
var prompts = map[Step]string{
	StepFirstName: "Enter your first name:",
	StepLastName:  "Enter your last name:",
	StepAge:       "Enter your age (a number):",
	StepContact:   "Enter your contact (phone / email / @username):",

	StepClientName:    "Enter the client's name:",
	StepClientCompany: "Enter the client's company name:",
	StepClientContact: "Enter the client's contact details:",
	StepSiteCompany:   "Enter the company name for the website:",
	StepBusinessType:  "Enter the business type (e.g. nail salon):",
	StepColorPalette:  "Enter color palette preferences:",
	StepSiteContacts:  "Enter contacts/addresses for the website (phone, WhatsApp, Telegram, email, etc.):",
	StepShortDesc:     "Enter a short description (1–2 sentences):",
	StepWorkHours:     "Enter working hours (e.g. Mon–Fri 10:00–19:00):",
	StepStructure:     "Enter the site structure (Hero, About, Services, Portfolio, Reviews, FAQ, Contacts, Map):",
	StepImages:        "Describe the images (e.g. \"photo 1 — for Hero, photo 2 — for portfolio\"):",
	StepServices:      "Enter the services (one per line: name — description — price):",

	StepAdminPassword: "Enter the administrator password:",
	StepFieldValue:    "Send the new value:",
}

const (
	msgAgeInvalid   = "Age must be a number from 1 to 119. Try again:"
	msgNoStepBack   = "There is no step to go back to."
	msgNoActiveForm = "No form is currently in progress."
)
