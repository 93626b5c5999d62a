/*
alerts.go - Deadline aggregation and notification records

PURPOSE:
  Fans in per-project deadline figures, keeps only the urgent ones, and
  produces ranked, ready-to-deliver notification records. The output is
  a pure function of (input, today): notification ids derive from the
  project id and the sweep date, never from wall-clock timestamps, so a
  re-run of the nightly sweep produces byte-identical records and the
  store can deduplicate on id alone.
*/
package engine

import (
	"fmt"
	"sort"
)

// ProjectDeadline is one project's deadline figure, as supplied by the
// persistence collaborator. DaysRemaining is nil when the project has no
// deadline set.
type ProjectDeadline struct {
	ProjectID     string
	Name          string
	DaysRemaining *int
}

// Alert is a rendered notification record.
type Alert struct {
	ID            string
	ProjectID     string
	Severity      Severity
	Message       string
	DaysRemaining int
	SweepDate     DatePoint
}

// AlertID derives a deterministic notification identity from the project
// and the sweep date.
func AlertID(projectID string, today DatePoint) string {
	return fmt.Sprintf("alert-%s-%s", projectID, today)
}

// RankUrgent filters projects to those inside the generic alert bands
// (expired, urgent, warning), sorts them ascending by days remaining
// (most overdue first), and renders one alert per survivor. Projects
// without a deadline cannot be urgent and are dropped.
func RankUrgent(projects []ProjectDeadline, today DatePoint) []Alert {
	eligible := make([]ProjectDeadline, 0, len(projects))
	for _, p := range projects {
		if p.DaysRemaining == nil {
			continue
		}
		if GenericAlertSeverity(*p.DaysRemaining) == SeverityNone {
			continue
		}
		eligible = append(eligible, p)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return *eligible[i].DaysRemaining < *eligible[j].DaysRemaining
	})

	alerts := make([]Alert, 0, len(eligible))
	for _, p := range eligible {
		days := *p.DaysRemaining
		alerts = append(alerts, Alert{
			ID:            AlertID(p.ProjectID, today),
			ProjectID:     p.ProjectID,
			Severity:      GenericAlertSeverity(days),
			Message:       alertMessage(p.Name, days),
			DaysRemaining: days,
			SweepDate:     today,
		})
	}
	return alerts
}

// alertMessage renders the exact notification copy the UI expects.
func alertMessage(name string, daysRemaining int) string {
	switch {
	case daysRemaining <= 0:
		return fmt.Sprintf("¡Plazo vencido! El proyecto \"%s\" ha superado su fecha límite.", name)
	case daysRemaining <= GenericUrgentDays:
		return fmt.Sprintf("¡Urgente! El proyecto \"%s\" vence en %s.", name, timeRemaining(daysRemaining))
	default:
		return fmt.Sprintf("Atención: El proyecto \"%s\" vence en %s.", name, timeRemaining(daysRemaining))
	}
}

func timeRemaining(days int) string {
	if days == 1 {
		return "1 día"
	}
	return fmt.Sprintf("%d días", days)
}

// =============================================================================
// PROJECT SUMMARY - Per-project fan-in of document statuses
// =============================================================================

// DocumentStatus pairs a document with its computed deadline status.
type DocumentStatus struct {
	DocumentID string
	Status     DeadlineStatus
}

// ProjectDeadlineSummary is the aggregate deadline view for one project.
type ProjectDeadlineSummary struct {
	ProjectID   string
	Statuses    []DocumentStatus
	UrgentCount int
}

// SummarizeProject orders a project's document statuses by ascending days
// remaining (documents without a reference date sort last) and counts the
// urgent ones.
func SummarizeProject(projectID string, statuses []DocumentStatus) ProjectDeadlineSummary {
	ordered := make([]DocumentStatus, len(statuses))
	copy(ordered, statuses)

	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := ordered[i].Status.DaysRemaining, ordered[j].Status.DaysRemaining
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	urgent := 0
	for _, s := range ordered {
		if s.Status.IsUrgent() {
			urgent++
		}
	}

	return ProjectDeadlineSummary{
		ProjectID:   projectID,
		Statuses:    ordered,
		UrgentCount: urgent,
	}
}
