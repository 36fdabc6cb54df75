package scoring

import (
	"fmt"

	"github.com/abhisek/tbrite/internal/assessment"
)

// Drift records a disagreement between a stored score and the count derived
// from the submission's answers.
type Drift struct {
	SubmissionID string                  `json:"submissionId"`
	Type         assessment.QuestionType `json:"type"`
	Stored       int                     `json:"stored"`
	Computed     int                     `json:"computed"`
}

func (d Drift) String() string {
	return fmt.Sprintf("submission %s: %s score stored %d, answers give %d",
		d.SubmissionID, d.Type, d.Stored, d.Computed)
}

// Consistency compares the cached comprehension/vocabulary scores with the
// canonical counts. An empty result means the cache is in sync.
func Consistency(sub assessment.Submission) []Drift {
	comp, vocab := CorrectCounts(sub.Answers)
	var drifts []Drift
	if sub.ComprehensionScore != comp {
		drifts = append(drifts, Drift{
			SubmissionID: sub.ID,
			Type:         assessment.Comprehension,
			Stored:       sub.ComprehensionScore,
			Computed:     comp,
		})
	}
	if sub.VocabularyScore != vocab {
		drifts = append(drifts, Drift{
			SubmissionID: sub.ID,
			Type:         assessment.Vocabulary,
			Stored:       sub.VocabularyScore,
			Computed:     vocab,
		})
	}
	return drifts
}

// Reconcile returns a copy of sub whose cached scores are replaced by the
// counts derived from its answers and whose miscues are deduplicated.
func Reconcile(sub assessment.Submission) assessment.Submission {
	sub.ComprehensionScore, sub.VocabularyScore = CorrectCounts(sub.Answers)
	sub.Miscues = assessment.UniqueMiscues(sub.Miscues)
	return sub
}

// ReconcileAll reconciles every submission, leaving the input untouched.
func ReconcileAll(subs []assessment.Submission) []assessment.Submission {
	out := make([]assessment.Submission, len(subs))
	for i, s := range subs {
		out[i] = Reconcile(s)
	}
	return out
}
