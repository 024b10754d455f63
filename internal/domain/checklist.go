package domain

import "math"

// ChecklistSchema declares which observation form carries rig-audit
// checklists and which record fields are its questions. Scoring only reads
// declared questions, so a new metadata column added upstream (report
// number, rig, audit type, link, weather, coordinates, ...) can never be
// miscounted as a failed item.
type ChecklistSchema struct {
	// Form is the exact "Report" field value identifying audit records.
	Form string

	// Questions are the record field names holding pass/fail answers.
	Questions []string
}

// Answer markers. "Yes" and "OK" pass, exactly "No" fails; any other value
// (free text, "N/A", blanks) is neither and drops out of the denominator.
const (
	answerYes = "Yes"
	answerOK  = "OK"
	answerNo  = "No"
)

// DefaultChecklistSchema returns the schema for the Casing rig audit form as
// currently configured in KPA.
func DefaultChecklistSchema() ChecklistSchema {
	return ChecklistSchema{
		Form: "Rig Audit Checklist",
		Questions: []string{
			"Housekeeping Acceptable",
			"PPE Worn Correctly",
			"Fire Extinguishers Inspected",
			"First Aid Kit Stocked",
			"Emergency Contacts Posted",
			"Rigging Equipment Inspected",
			"Tongs In Safe Condition",
			"Elevators In Safe Condition",
			"Slips In Safe Condition",
			"Stabbing Board Certified",
			"Fall Protection In Use",
			"H2S Monitors Calibrated",
			"JSA Completed And Signed",
			"Spill Kit Available",
		},
	}
}

// ExtractChecklistAudits filters observation items to the audit form and
// scores each one. Score is round(passed/(passed+failed)*100); a record with
// zero evaluable answers scores 0. Failed question names are retained for
// drill-down.
func ExtractChecklistAudits(observations []EHSItem, schema ChecklistSchema) []ChecklistAudit {
	var audits []ChecklistAudit
	for _, item := range observations {
		if item.Raw.String("Report") != schema.Form {
			continue
		}

		var passed, failed int
		var failedItems []string
		for _, q := range schema.Questions {
			v, ok := item.Raw[q].(string)
			if !ok {
				continue
			}
			switch v {
			case answerYes, answerOK:
				passed++
			case answerNo:
				failed++
				failedItems = append(failedItems, q)
			}
		}

		score := 0
		if passed+failed > 0 {
			score = int(math.Round(float64(passed) / float64(passed+failed) * 100))
		}

		audits = append(audits, ChecklistAudit{
			Report:      schema.Form,
			Date:        item.Date,
			District:    item.District,
			Observer:    item.Raw.String("Observer"),
			Score:       score,
			Passed:      passed,
			Failed:      failed,
			FailedItems: failedItems,
		})
	}
	return audits
}
