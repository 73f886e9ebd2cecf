// Package tui is the interactive console of the study assistant: a numbered
// menu over a session, styled with lipgloss.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeanpaul/studymentor/internal/export"
	"github.com/jeanpaul/studymentor/internal/provider"
	"github.com/jeanpaul/studymentor/internal/session"
	"github.com/jeanpaul/studymentor/internal/types"
)

const mainMenu = `
1. 💬 Ask Question
2. 📋 Create Study Plan
3. 🧠 Explain Concept
4. 💪 Motivation

5. 📈 View Progress
6. 👤 Manage Profile
7. 💾 Export History
8. 🔄 Change AI Provider
9. 📊 View Statistics

0. 🚪 Exit`

const profileMenu = `
1. View profile
2. Change name
3. Change grade
4. Change subjects`

type Options struct {
	ExportDir string
	Markdown  bool
	Width     int
}

type App struct {
	sess   *session.Session
	con    *Console
	out    io.Writer
	render *Renderer
	opts   Options
}

func New(sess *session.Session, in io.Reader, out io.Writer, opts Options) *App {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	return &App{
		sess:   sess,
		con:    NewConsole(in, out),
		out:    out,
		render: NewRenderer(opts.Markdown, opts.Width),
		opts:   opts,
	}
}

// Run shows the banner, creates a profile when none exists and serves the
// menu until the student exits, input ends or ctx is done. The session is
// closed on return.
func (a *App) Run(ctx context.Context) {
	defer a.sess.Close()
	a.con.Bind(ctx)

	a.banner()
	if a.sess.NeedsProfile() {
		a.createProfile()
	} else {
		a.con.Println(SuccessStyle.Render("\n✅ Profile loaded: " + a.sess.Profile.Name))
	}
	a.announceProvider()

	for {
		a.menu()
		choice := a.con.Choice(9)
		if a.con.Closed() && choice < 0 {
			if ctx.Err() != nil {
				a.con.Println()
			}
			return
		}
		switch choice {
		case 1:
			a.askQuestion(ctx)
		case 2:
			a.studyPlan(ctx)
		case 3:
			a.explain(ctx)
		case 4:
			a.motivate(ctx)
		case 5:
			a.progress()
		case 6:
			a.manageProfile()
		case 7:
			a.exportHistory()
		case 8:
			a.changeProvider()
		case 9:
			a.statistics()
		case 0:
			a.con.Println(WarnStyle.Render("\n👋 Thanks for using StudyMentor! Keep studying!"))
			return
		default:
			a.con.Println(ErrorStyle.Render("❌ Invalid choice. Try again."))
		}
	}
}

func (a *App) banner() {
	a.con.Println()
	a.con.Println(Rule())
	a.con.Println(TitleStyle.Render("🎓 Welcome to StudyMentor - Your AI-Powered Study Assistant!"))
	a.con.Println(Rule())
}

func (a *App) announceProvider() {
	p := a.sess.Provider
	if !p.Available() {
		a.con.Println(ErrorStyle.Render("\n⚠️ AI key not found for " + p.Name()))
		a.con.Println(WarnStyle.Render("Set your environment variable:\n"))
		for _, k := range types.Kinds() {
			a.con.Printf("   %-7s → set %s\n", k, provider.KeyHint(k))
		}
		return
	}
	a.con.Println(SuccessStyle.Render("✅ " + p.Name() + " initialized!"))
}

func (a *App) menu() {
	a.con.Println()
	a.con.Println(Rule())
	a.con.Println(TitleStyle.Render("🏠 MAIN MENU") + " " +
		StatusProviderStyle.Render("AI: "+a.sess.Provider.Name()) + " " +
		TitleStyle.Render("Student: "+a.sess.Greeting()))
	a.con.Println(Rule())
	a.con.Println(mainMenu)
	a.con.Println()
	a.con.Printf("%s", PromptStyle.Render("Enter choice: "))
}

func (a *App) createProfile() {
	a.con.Println(TitleStyle.Render("\n📝 Create Profile"))
	p := types.Profile{
		Name:     a.con.Prompt("Name: "),
		Grade:    a.con.Prompt("Grade/Level: "),
		Email:    a.con.Prompt("Email (optional): "),
		Subjects: types.ParseSubjects(a.con.Prompt("Subjects (comma-separated): ")),
	}

	a.con.Println("\nChoose AI Provider:")
	a.listProviders()
	p.PreferredAI = types.Gemini
	if a.con.Choice(len(types.Kinds())) == 1 {
		p.PreferredAI = types.OpenAI
	}

	a.sess.CreateProfile(p)
	a.con.Println(SuccessStyle.Render("\n✅ Profile created!"))
}

func (a *App) listProviders() {
	for i, k := range types.Kinds() {
		a.con.Printf("%d. %s\n", i+1, k)
	}
}

// ask waits on fn and prints the answer under title, or the failure.
// It reports whether an answer was printed.
func (a *App) ask(title string, fn func() (string, error)) bool {
	answer, err := Wait(a.out, "🤖 Thinking...", fn)
	if err != nil {
		a.con.Println(ErrorStyle.Render("❌ " + describe(err)))
		return false
	}
	a.con.Println(AnswerLabelStyle.Render("\n" + title))
	a.con.Println(a.render.Render(answer))
	return true
}

func (a *App) askQuestion(ctx context.Context) {
	a.con.Println(TitleStyle.Render("\n💬 Ask your question"))
	q := a.con.Prompt("Your question: ")
	switch {
	case strings.TrimSpace(q) == "":
		a.con.Println(WarnStyle.Render("Nothing to ask."))
	case !a.sess.Provider.Available():
		a.con.Println(ErrorStyle.Render("❌ AI Provider not available."))
	default:
		a.ask("📝 Answer:", func() (string, error) { return a.sess.Ask(ctx, q) })
	}
	a.con.Pause()
}

func (a *App) studyPlan(ctx context.Context) {
	req := session.PlanRequest{
		Subject: a.con.Prompt("\nSubject: "),
		Days:    a.con.Prompt("Duration (days): "),
		Hours:   a.con.Prompt("Daily hours: "),
		Level:   a.con.Prompt("Level (Beginner/Intermediate/Advanced): "),
	}
	a.ask("📋 Study Plan:", func() (string, error) { return a.sess.StudyPlan(ctx, req) })
	a.con.Pause()
}

func (a *App) explain(ctx context.Context) {
	concept := a.con.Prompt("\nConcept: ")
	styles := session.ExplainStyles()
	a.con.Println()
	for i, s := range styles {
		a.con.Printf("%d. %s\n", i+1, s)
	}
	c := a.con.Choice(len(styles))
	if c < 1 {
		a.con.Println(ErrorStyle.Render("❌ Invalid choice. Try again."))
		a.con.Pause()
		return
	}
	style := styles[c-1]
	a.ask("🧠 Explanation:", func() (string, error) { return a.sess.Explain(ctx, concept, style) })
	a.con.Pause()
}

func (a *App) motivate(ctx context.Context) {
	a.ask("💪 Motivation:", func() (string, error) { return a.sess.Motivate(ctx) })
	a.con.Pause()
}

func (a *App) progress() {
	a.con.Println(TitleStyle.Render("\n📈 Progress"))
	a.printProfile(false)
	a.con.Println("Sessions: " + strconv.Itoa(a.sess.Stats.TotalSessions))
	a.con.Println("Questions: " + strconv.Itoa(a.sess.Stats.TotalQuestions))
	a.con.Pause()
}

func (a *App) printProfile(withEmail bool) {
	var p types.Profile
	if a.sess.Profile != nil {
		p = *a.sess.Profile
	}
	a.con.Println("Name: " + p.Name)
	a.con.Println("Grade: " + p.Grade)
	if withEmail {
		a.con.Println("Email: " + p.Email)
	}
	a.con.Println("Subjects: " + p.SubjectList())
}

func (a *App) manageProfile() {
	a.con.Println(profileMenu)
	a.con.Println()
	switch a.con.Choice(4) {
	case 1:
		a.printProfile(true)
	case 2:
		a.sess.Rename(a.con.Prompt("New name: "))
		a.con.Println(SuccessStyle.Render("Updated!"))
	case 3:
		a.sess.SetGrade(a.con.Prompt("New grade: "))
		a.con.Println(SuccessStyle.Render("Updated!"))
	case 4:
		a.sess.SetSubjects(types.ParseSubjects(a.con.Prompt("New subjects: ")))
		a.con.Println(SuccessStyle.Render("Updated!"))
	default:
		a.con.Println(ErrorStyle.Render("❌ Invalid choice. Try again."))
	}
	a.con.Pause()
}

func (a *App) exportHistory() {
	if a.sess.History.Empty() {
		a.con.Println(WarnStyle.Render("⚠️ No history."))
		return
	}

	a.con.Println("\n1. Text (.txt)\n2. Excel (.xlsx)")
	f := export.Text
	if a.con.Choice(2) == 2 {
		f = export.Excel
	}

	path, err := a.sess.ExportHistory(a.opts.ExportDir, f)
	if err != nil {
		a.con.Println(ErrorStyle.Render("❌ " + err.Error()))
	} else {
		a.con.Println(SuccessStyle.Render("Saved → " + path))
	}
	a.con.Pause()
}

func (a *App) changeProvider() {
	a.con.Println()
	a.listProviders()
	kinds := types.Kinds()
	c := a.con.Choice(len(kinds))
	if c < 1 {
		a.con.Println(ErrorStyle.Render("❌ Invalid choice. Try again."))
		a.con.Pause()
		return
	}

	if a.sess.SwitchProvider(kinds[c-1]) {
		a.announceProvider()
		a.con.Println(SuccessStyle.Render("Changed!"))
	} else {
		a.con.Println(WarnStyle.Render("Already selected."))
	}
	a.con.Pause()
}

func (a *App) statistics() {
	a.con.Println(StatsView(*a.sess.Stats))
	a.con.Pause()
}

// StatsView renders the counters of the current run.
func StatsView(s types.Stats) string {
	var b strings.Builder
	b.WriteString(SectionStyle.Render("\n📊 Current Session:") + "\n")
	fmt.Fprintf(&b, "   Questions Asked: %d\n", s.QuestionsAsked)
	fmt.Fprintf(&b, "   Study Plans: %d\n", s.StudyPlansCreated)
	fmt.Fprintf(&b, "   Motivation Sessions: %d\n", s.MotivationSessions)

	b.WriteString(SectionStyle.Render("\n📈 Overall Statistics:") + "\n")
	fmt.Fprintf(&b, "   Total Sessions: %d\n", s.TotalSessions)
	fmt.Fprintf(&b, "   Total Questions: %d", s.TotalQuestions)
	if s.TotalSessions > 0 {
		fmt.Fprintf(&b, "\n   Avg Questions/Session: %d", s.AvgQuestionsPerSession())
	}
	return b.String()
}

// describe turns a provider failure into a line for the student.
func describe(err error) string {
	var apiErr *provider.APIError
	switch {
	case errors.Is(err, provider.ErrUnavailable):
		return "AI Provider not available."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%s API error: %s", apiErr.Provider, apiErr.Hint())
	}
	return err.Error()
}
