package database

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/bomino/xlc-bstt-server/models"
	"github.com/bomino/xlc-bstt-server/timeclock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedOffices = []string{"Martinsburg", "Hagerstown", "Winchester", "Frederick"}

var seedDepartments = []string{"Assembly", "Packing", "Quality Control", "Shipping", "Maintenance"}

var seedShifts = []string{"1", "2", "3"}

// SeedData populates the store with plausible development data: eight
// weeks of entries per office with a realistic entry-type mix.
func SeedData(db *gorm.DB) error {
	rules := timeclock.NewRules([]string{"Martinsburg"})
	rng := rand.New(rand.NewSource(42))

	end := time.Now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -56)

	var entries []models.TimeEntry
	for _, office := range seedOffices {
		for e := 0; e < 25; e++ {
			applicantID := fmt.Sprintf("%s-%04d", office[:3], e+1)
			fullName := fmt.Sprintf("Employee %s %d", office, e+1)
			dept := seedDepartments[rng.Intn(len(seedDepartments))]
			shift := seedShifts[rng.Intn(len(seedShifts))]

			for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
				if d.Weekday() == time.Sunday || rng.Float64() < 0.25 {
					continue
				}

				entryType := models.EntryTypeFinger
				switch roll := rng.Float64(); {
				case roll < 0.02:
					entryType = models.EntryTypeProvisional
				case roll < 0.05:
					entryType = models.EntryTypeWriteIn
				case roll < 0.07:
					entryType = models.EntryTypeMissingCO
				}

				weekEnding := rules.WeekEnding(office, d)
				weekYear, weekNumber := timeclock.WeekKey(weekEnding)

				reg := 8.0
				ot := 0.0
				if rng.Float64() < 0.2 {
					ot = float64(rng.Intn(4))
				}

				method := "Finger"
				if entryType != models.EntryTypeFinger {
					method = "Manual"
				}

				entries = append(entries, models.TimeEntry{
					ApplicantID:      applicantID,
					FullName:         fullName,
					XLCOperation:     office,
					BuDeptName:       &dept,
					ShiftNumber:      &shift,
					Year:             d.Year(),
					WorkDate:         d,
					DtEndCliWorkWeek: weekEnding,
					WeekYear:         weekYear,
					WeekNumber:       weekNumber,
					EntryType:        entryType,
					ClockInMethod:    &method,
					ClockOutMethod:   &method,
					ClockInTries:     1 + rng.Intn(2)*rng.Intn(3),
					ClockOutTries:    1 + rng.Intn(2)*rng.Intn(2),
					RegHours:         reg,
					OtHours:          ot,
					TotalHours:       reg + ot,
				})
			}
		}
	}

	// Same conflict target as ingestion, so reseeding is harmless
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "applicant_id"}, {Name: "work_date"}, {Name: "xlc_operation"}},
		UpdateAll: true,
	}).CreateInBatches(entries, 500)
	if res.Error != nil {
		return fmt.Errorf("failed to seed time entries: %w", res.Error)
	}

	log.Printf("Seeded %d time entries across %d offices", len(entries), len(seedOffices))
	return nil
}
