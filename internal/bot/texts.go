package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Reply keyboard button labels. Button presses arrive as plain message text,
// so these double as dispatch patterns.
const (
	btnRegister   = "📝 Register"
	btnAdminLogin = "🔐 Admin login"

	btnNewRequest = "➕ New request"
	btnMyRequests = "📋 My requests"
	btnResetForm  = "❌ Reset form"

	btnPanel       = "📊 Panel"
	btnUsers       = "👥 Users"
	btnRequests    = "📦 Requests"
	btnAdminLogout = "🚪 Leave admin"

	btnBack     = "⬅️ Back"
	btnExitForm = "🚪 Exit form"
)

// Callback data prefixes.
const (
	cbOpen       = "open_"  // open_<id>
	cbEdit       = "edit_"  // edit_<id>
	cbDelete     = "del_"   // del_<id>
	cbEditField  = "ef_"    // ef_<id>_<field>
	cbExportOne  = "exp_"   // exp_<id>
	cbGenerate   = "gen_"   // gen_<id>
	cbListPage   = "plist_" // plist_<page>
	cbBackToList = "back_list"
)

// User-facing messages outside form prompts.
const (
	msgGreetAdmin        = "Hello! Mode: <b>Admin</b>"
	msgGreetManager      = "Hello! Mode: <b>Manager</b>"
	msgGreetGuest        = "Hello! You are not registered yet."
	msgAlreadyAdmin      = "You are already in admin mode."
	msgAdminModeFirst    = "Admin mode is active. Press «🚪 Leave admin» first."
	msgAlreadyRegistered = "You are already registered."
	msgRegistered        = "✅ Registration complete!"
	msgManagersOnly      = "This feature is only available to managers."
	msgRegisterFirst     = "Please register first: «📝 Register»."
	msgNoRequestsYet     = "You have no requests yet. Press «➕ New request»."
	msgRequestSaved      = "✅ Request saved!\nOpen «📋 My requests» to view or edit it."
	msgRequestNotFound   = "Request not found."
	msgNoAccess          = "You don't have permission to do that."
	msgFormClosed        = "Form closed, nothing was saved."
	msgChooseField       = "Choose a field to edit:"
	msgRequestDeleted    = "🗑 Request deleted."
	msgNoActiveForm      = "There is no active form."
	msgFieldSaved        = "✅ Saved."
	msgWrongPassword     = "Wrong password."
	msgAdminEnabled      = "Done. Admin mode is on."
	msgNotAdminMode      = "You are not in admin mode."
	msgAdminLeft         = "You left admin mode. Manager mode restored."
	msgStorageRetry      = "⚠️ Could not save. Please try again."
	msgGenerateQueued    = "🚀 Site generation requested."
	msgGenerateWarn      = "⚠️ Site generation service is unavailable right now. The request itself is safe."
	msgNoUsersYet        = "No users yet."
	msgNoRequestsAtAll   = "No requests yet."
	msgNothingToExport   = "There are no requests to export."
	msgChooseRequest     = "Choose a request:"
	msgYourRequests      = "Your requests:"
	msgExportUsage       = "Usage: /export_request &lt;id&gt;"
)

// Per-role command menus, applied with a chat scope after every role change.
var guestCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start"},
	{Command: "register", Description: "Register"},
	{Command: "admin_login", Description: "Admin login"},
}

var managerCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start"},
	{Command: "new_request", Description: "New request"},
	{Command: "my_requests", Description: "My requests"},
	{Command: "reset", Description: "Reset form"},
	{Command: "admin_login", Description: "Admin login"},
}

var adminCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start"},
	{Command: "admin_panel", Description: "Admin: panel"},
	{Command: "admin_users", Description: "Admin: users"},
	{Command: "admin_requests", Description: "Admin: requests"},
	{Command: "export_request", Description: "Admin: export one request"},
	{Command: "export_all", Description: "Admin: export all requests"},
	{Command: "logout", Description: "Admin: leave"},
}
