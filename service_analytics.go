package teamkit

import (
	"context"
	"sort"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ANALYTICS
// ============================================================================

// topAssignersLimit caps the assigner leaderboard.
const topAssignersLimit = 5

// GetRoleAnalytics summarizes the organizer's assignment set at call
// time. The computation reads the store directly, so repeated calls
// reflect mutations in between; nothing is cached. Distributions cover
// currently active assignments (active flag set and not past expiry),
// the expired count includes deactivated and past-expiry rows.
func (s *Service) GetRoleAnalytics(ctx context.Context, organizerID string) (*RoleAnalytics, error) {
	var assignments []RoleAssignment
	err := dbkit.WithErr1(s.db.NewSelect().Model(&assignments).
		Where("organizer_id = ?", organizerID).
		Scan(ctx), "GetRoleAnalytics").Err()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	analytics := &RoleAnalytics{
		TotalAssignments:  len(assignments),
		RoleDistribution:  make(map[string]int),
		ScopeDistribution: make(map[RoleScope]int),
		AssignmentTrends: AssignmentTrends{
			Daily:   make([]int, 7),
			Weekly:  make([]int, 4),
			Monthly: make([]int, 12),
		},
	}

	assignerCounts := make(map[string]int)
	for i := range assignments {
		ra := &assignments[i]
		assignerCounts[ra.AssignedBy]++

		if ra.IsCurrentlyActive(now) {
			analytics.ActiveAssignments++
			analytics.RoleDistribution[ra.Role]++
			analytics.ScopeDistribution[ra.Scope]++
		}
		if !ra.IsActive || ra.IsExpired(now) {
			analytics.ExpiredAssignments++
		}

		bucketTrends(&analytics.AssignmentTrends, now.Sub(ra.AssignedAt))
	}

	analytics.TopAssigners = rankAssigners(assignerCounts, topAssignersLimit)

	return analytics, nil
}

// bucketTrends increments the trend buckets an assignment age falls
// into. Buckets are oldest-first: Daily[6] is today, Daily[0] six days
// ago; weeks are 7-day and months 30-day windows.
func bucketTrends(trends *AssignmentTrends, age time.Duration) {
	if age < 0 {
		return
	}

	if days := int(age.Hours() / 24); days < len(trends.Daily) {
		trends.Daily[len(trends.Daily)-1-days]++
	}
	if weeks := int(age.Hours() / (24 * 7)); weeks < len(trends.Weekly) {
		trends.Weekly[len(trends.Weekly)-1-weeks]++
	}
	if months := int(age.Hours() / (24 * 30)); months < len(trends.Monthly) {
		trends.Monthly[len(trends.Monthly)-1-months]++
	}
}

// rankAssigners orders actors by assignment count, ties broken by ID for
// stable output.
func rankAssigners(counts map[string]int, limit int) []AssignerActivity {
	ranked := make([]AssignerActivity, 0, len(counts))
	for userID, total := range counts {
		ranked = append(ranked, AssignerActivity{UserID: userID, TotalAssignments: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalAssignments != ranked[j].TotalAssignments {
			return ranked[i].TotalAssignments > ranked[j].TotalAssignments
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
