// Package insight is the canned "AI" analysis stub behind the career
// insights, job match and reply suggestion features.
//
// There is no model here and no real computation: the contract is a fixed
// latency followed by a randomly chosen result from a small canned set,
// which is what the dashboards were built against. Keeping it behind an
// in-process type means a real analysis backend can replace it later
// without the handlers changing.
package insight

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultDelay is the simulated analysis latency.
const DefaultDelay = 1200 * time.Millisecond

// ResumeAnalysis is the canned resume reading shown on the insights page.
type ResumeAnalysis struct {
	ResumeScore    int      `json:"resumeScore"`
	PrimaryRole    string   `json:"primaryRole"`
	Recommendation string   `json:"recommendation"`
	TopGaps        []string `json:"topGaps"`
}

// JobMatch is one canned job posting with a precomputed match percentage.
type JobMatch struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Match    int      `json:"match"`
	Skills   []string `json:"skills"`
	Posted   string   `json:"posted"`
}

var resumeAnalyses = []ResumeAnalysis{
	{
		ResumeScore:    82,
		PrimaryRole:    "Frontend Engineer",
		Recommendation: "Focus on TypeScript + Next.js and add quantifiable outcomes to projects. Improve Node.js knowledge to be full-stack-ready.",
		TopGaps:        []string{"TypeScript (Intermediate)", "Quantified Achievements", "Backend (APIs)"},
	},
	{
		ResumeScore:    76,
		PrimaryRole:    "Full-Stack Developer",
		Recommendation: "Add measurable metrics to experience bullets and include at least one open-source contribution.",
		TopGaps:        []string{"Open Source", "System Design", "Testing"},
	},
	{
		ResumeScore:    88,
		PrimaryRole:    "UI Engineer",
		Recommendation: "Strong visual portfolio. Deepen accessibility knowledge and document component APIs.",
		TopGaps:        []string{"Accessibility", "Design Systems", "Performance Budgets"},
	},
}

var jobMatches = []JobMatch{
	{ID: 1, Title: "Frontend Developer", Company: "TechNova Labs", Location: "Bangalore, India", Match: 92, Skills: []string{"React", "Tailwind", "Firebase"}, Posted: "2 days ago"},
	{ID: 2, Title: "UI/UX Engineer", Company: "DesignMatrix", Location: "Remote", Match: 87, Skills: []string{"Figma", "CSS", "React"}, Posted: "4 days ago"},
	{ID: 3, Title: "Full-Stack Developer", Company: "InnovateX", Location: "Hyderabad, India", Match: 79, Skills: []string{"React", "Node.js", "MongoDB"}, Posted: "1 week ago"},
}

var replySuggestions = []string{
	"Amazing work — would love to see the repo!",
	"Nice UI — try adding a small microinteraction.",
	"Love this — can you share the tech stack?",
}

// Analyzer serves canned results after a fixed delay.
type Analyzer struct {
	delay time.Duration
	pick  func(n int) int
}

// New creates an Analyzer with the default latency.
func New() *Analyzer {
	return NewWithDelay(DefaultDelay)
}

// NewWithDelay creates an Analyzer with a custom latency. Tests pass 0.
func NewWithDelay(delay time.Duration) *Analyzer {
	return &Analyzer{delay: delay, pick: rand.IntN}
}

// AnalyzeResume returns one of the canned resume readings.
func (a *Analyzer) AnalyzeResume(ctx context.Context) (ResumeAnalysis, error) {
	if err := a.wait(ctx); err != nil {
		return ResumeAnalysis{}, err
	}
	return resumeAnalyses[a.pick(len(resumeAnalyses))], nil
}

// MatchJobs returns the canned job matches.
func (a *Analyzer) MatchJobs(ctx context.Context) ([]JobMatch, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	out := make([]JobMatch, len(jobMatches))
	copy(out, jobMatches)
	return out, nil
}

// SuggestReply returns one of the canned reply suggestions.
func (a *Analyzer) SuggestReply(ctx context.Context) (string, error) {
	if err := a.wait(ctx); err != nil {
		return "", err
	}
	return replySuggestions[a.pick(len(replySuggestions))], nil
}

// wait sleeps for the configured latency, honoring context cancellation so
// an abandoned request doesn't hold its handler goroutine.
func (a *Analyzer) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
