package prompt

// Builtin template names.
const (
	TemplateKickoff          = "kickoff.md"
	TemplateBackend          = "backend.md"
	TemplateFrontend         = "frontend.md"
	TemplateDevOps           = "devops.md"
	TemplateReviewer         = "reviewer.md"
	TemplateCouncilMember    = "council_member.md"
	TemplateCouncilModerator = "council_moderator.md"
)

// builtinTemplates are the default stage prompts. The labels and ordering of
// the chained stage outputs are load-bearing: downstream agents are
// instructed to look for them by name.
var builtinTemplates = map[string]string{
	TemplateKickoff: "User Request: {{request}}\n\nPlease start the development process.",

	TemplateBackend: "Architect's Specification:\n\n{{architect_output}}",

	TemplateFrontend: "Architect's Specification:\n\n{{architect_output}}\n\n" +
		"---\n\n" +
		"Backend Developer's Report:\n\n{{backend_output}}",

	TemplateDevOps: "Project Context:\n\n" +
		"Architect's Spec:\n{{architect_output}}\n\n" +
		"Backend Report:\n{{backend_output}}\n\n" +
		"Frontend Report:\n{{frontend_output}}",

	TemplateReviewer: "Review the project in the workspace. Clean it up and provide a final summary.",

	TemplateCouncilMember: "Here is the idea to evaluate:\n\n{{idea}}\n" +
		"{{#if transcript}}\nDebate so far:\n\n{{transcript}}\n{{/if}}\n" +
		"Give your assessment from your own area of expertise.",

	TemplateCouncilModerator: "Here is the idea the council debated:\n\n{{idea}}\n\n" +
		"Full debate transcript:\n\n{{transcript}}",
}
