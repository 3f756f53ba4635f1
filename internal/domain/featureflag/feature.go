package featureflag

import (
	"strings"

	"github.com/salespulse/backend/internal/domain/shared"
)

// Feature names a toggleable area of the product. Flags for unknown
// features are rejected at the boundary.
type Feature string

const (
	FeatureLeaderboard   Feature = "leaderboard"
	FeatureRecruiting    Feature = "recruiting"
	FeatureDocuments     Feature = "documents"
	FeatureReportsExport Feature = "reports_export"
	FeatureNPATracker    Feature = "npa_tracker"
	FeatureSNATracker    Feature = "sna_tracker"
)

// featureDefaults is the built-in registry: every known feature and
// whether it is on for teams that never configured it.
var featureDefaults = map[Feature]bool{
	FeatureLeaderboard:   true,
	FeatureRecruiting:    true,
	FeatureDocuments:     true,
	FeatureReportsExport: true,
	FeatureNPATracker:    true,
	FeatureSNATracker:    true,
}

// AllFeatures returns the known features in stable order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureLeaderboard,
		FeatureRecruiting,
		FeatureDocuments,
		FeatureReportsExport,
		FeatureNPATracker,
		FeatureSNATracker,
	}
}

// ParseFeature parses a feature name.
func ParseFeature(s string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", shared.NewDomainError("UNKNOWN_FEATURE", "Unknown feature: "+s)
	}
	return f, nil
}

// IsValid reports whether the feature is in the registry.
func (f Feature) IsValid() bool {
	_, ok := featureDefaults[f]
	return ok
}

// DefaultEnabled returns the registry default for the feature.
func (f Feature) DefaultEnabled() bool {
	return featureDefaults[f]
}

func (f Feature) String() string {
	return string(f)
}
