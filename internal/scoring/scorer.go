package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Component weights are fixed policy, not configuration.
const (
	interestWeight = 40.0
	traitWeight    = 30.0
	goalBonus      = 15.0
	lifestyleBonus = 5.0
	maxScore       = 100
)

// Quality type tags for the matched-quality variants.
const (
	QualityInterests = "interests"
	QualityTraits    = "traits"
	QualityGoal      = "goal"
	QualityLifestyle = "lifestyle"
)

// Input is the scoring view of one profile: interest names, personality
// traits, relationship goal, and the three lifestyle axes. Empty fields
// simply contribute nothing.
type Input struct {
	Interests        []string
	Traits           []string
	RelationshipGoal string
	Drinking         string
	Smoking          string
	Exercise         string
}

// Quality explains one shared attribute group between two profiles.
type Quality struct {
	Type  string   `json:"type"`
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// Score computes the 0-100 compatibility between requester and candidate
// along with the ordered matched qualities.
//
// The interest/trait ratios divide by the LARGER of the two set sizes, so
// the result depends on which side is the requester. That asymmetry is
// long-observed behavior and is kept on purpose; do not replace it with a
// symmetric Jaccard index.
func Score(requester, candidate Input) (int, []Quality) {
	var total float64
	qualities := []Quality{}

	// Shared interests
	if shared := intersect(candidate.Interests, requester.Interests); len(shared) > 0 {
		qualities = append(qualities, Quality{
			Type:  QualityInterests,
			Label: countLabel(len(shared), "Shared Interest"),
			Items: shared,
		})
		total += ratio(len(shared), len(requester.Interests), len(candidate.Interests)) * interestWeight
	}

	// Shared personality traits
	if shared := intersect(requester.Traits, candidate.Traits); len(shared) > 0 {
		qualities = append(qualities, Quality{
			Type:  QualityTraits,
			Label: countLabel(len(shared), "Common Trait"),
			Items: shared,
		})
		total += ratio(len(shared), len(requester.Traits), len(candidate.Traits)) * traitWeight
	}

	// Relationship goal
	if requester.RelationshipGoal != "" && requester.RelationshipGoal == candidate.RelationshipGoal {
		qualities = append(qualities, Quality{
			Type:  QualityGoal,
			Label: "Same Relationship Goal",
			Items: []string{candidate.RelationshipGoal},
		})
		total += goalBonus
	}

	// Lifestyle compatibility
	var lifestyle []string
	if requester.Drinking != "" && requester.Drinking == candidate.Drinking {
		lifestyle = append(lifestyle, fmt.Sprintf("Both %s drink", strings.ToLower(candidate.Drinking)))
	}
	if requester.Smoking != "" && requester.Smoking == candidate.Smoking {
		lifestyle = append(lifestyle, fmt.Sprintf("Both %s smoke", strings.ToLower(candidate.Smoking)))
	}
	if requester.Exercise != "" && requester.Exercise == candidate.Exercise {
		lifestyle = append(lifestyle, fmt.Sprintf("Both exercise %s", strings.ToLower(candidate.Exercise)))
	}
	if len(lifestyle) > 0 {
		qualities = append(qualities, Quality{
			Type:  QualityLifestyle,
			Label: "Lifestyle Compatibility",
			Items: lifestyle,
		})
		total += float64(len(lifestyle)) * lifestyleBonus
	}

	score := int(math.Round(total))
	if score > maxScore {
		score = maxScore
	}
	return score, qualities
}

// intersect returns the members of primary that also appear in other,
// preserving primary's order.
func intersect(primary, other []string) []string {
	set := make(map[string]struct{}, len(other))
	for _, v := range other {
		set[v] = struct{}{}
	}

	var shared []string
	for _, v := range primary {
		if _, ok := set[v]; ok {
			shared = append(shared, v)
		}
	}
	return shared
}

func ratio(common, a, b int) float64 {
	denom := a
	if b > denom {
		denom = b
	}
	if denom == 0 {
		return 0
	}
	return float64(common) / float64(denom)
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
