package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/edufin/finboard-backend/internal/config"
	"github.com/edufin/finboard-backend/internal/database"
	"github.com/edufin/finboard-backend/internal/logger"
)

// Development seed: reference dictionaries plus a year of payment and refund
// events spread across campuses, course types and classes. Deterministic so
// repeated runs against a clean database produce the same ledger.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding Ledger ===")

	campuses := [][2]string{
		{"bj01", "Beijing Campus"},
		{"sh01", "Shanghai Campus"},
		{"gz01", "Guangzhou Campus"},
	}
	for _, c := range campuses {
		if _, err := pool.Exec(ctx,
			`INSERT INTO campuses (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			c[0], c[1]); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed campuses")
		}
	}

	courseTypes := [][2]string{
		{"PS", "Primer Course"},
		{"KET", "KET Course"},
		{"PET", "PET Course"},
		{"FCE", "FCE Course"},
		{"CAE", "CAE Course"},
	}
	for _, ct := range courseTypes {
		if _, err := pool.Exec(ctx,
			`INSERT INTO course_types (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			ct[0], ct[1]); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed course types")
		}
	}

	teachers := [][2]string{
		{"T001", "Zhang Wei"},
		{"T002", "Li Na"},
		{"T003", "Wang Fang"},
		{"T004", "Chen Jing"},
		{"T005", "Liu Yang"},
		{"T006", "Zhao Lei"},
	}
	for _, t := range teachers {
		if _, err := pool.Exec(ctx,
			`INSERT INTO teachers (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			t[0], t[1]); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed teachers")
		}
	}

	// Deterministic spread of classes over campuses/course types/teachers.
	rng := rand.New(rand.NewSource(26))
	classifications := []string{"new", "renewal"}

	type seedClass struct {
		id, display, teacher, campus, course, classification string
	}
	var classes []seedClass
	for i := 1; i <= 24; i++ {
		ct := courseTypes[i%len(courseTypes)][0]
		cls := seedClass{
			id:             fmt.Sprintf("C%03d", i),
			display:        fmt.Sprintf("26%s%03d", ct, i),
			teacher:        teachers[i%len(teachers)][0],
			campus:         campuses[i%len(campuses)][0],
			course:         ct,
			classification: classifications[i%2],
		}
		classes = append(classes, cls)
		if _, err := pool.Exec(ctx,
			`INSERT INTO classes (id, display_name, teacher_id, campus_id, course_type, classification)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			cls.id, cls.display, cls.teacher, cls.campus, cls.course, cls.classification); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed classes")
		}
	}

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	payments, refunds := 0, 0
	for day := 0; day < 365; day++ {
		date := start.AddDate(0, 0, day)
		for _, cls := range classes {
			if rng.Intn(10) > 1 { // roughly two active days per class per 10 days
				continue
			}
			payments++
			count := 1 + rng.Intn(8)
			amount := int64(count) * int64(2000+rng.Intn(1500))
			if _, err := pool.Exec(ctx,
				`INSERT INTO payment_events (id, pay_date, class_id, teacher_id, campus_id, course_type, pay_count, pay_amount)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
				fmt.Sprintf("P%06d", payments), date, cls.id, cls.teacher, cls.campus, cls.course, count, amount); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed payment events")
			}

			// Occasional refund trailing the payment activity.
			if rng.Intn(12) == 0 {
				refunds++
				if _, err := pool.Exec(ctx,
					`INSERT INTO refund_events (id, refund_date, class_id, teacher_id, campus_id, course_type, refund_count, refund_amount, reason)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`,
					fmt.Sprintf("R%06d", refunds), date.AddDate(0, 0, rng.Intn(14)), cls.id, cls.teacher, cls.campus, cls.course,
					1, int64(2000+rng.Intn(1500)), "schedule conflict"); err != nil {
					log.Fatal().Err(err).Msg("Failed to seed refund events")
				}
			}
		}
	}

	fmt.Printf("Seeded %d campuses, %d course types, %d teachers, %d classes\n",
		len(campuses), len(courseTypes), len(teachers), len(classes))
	fmt.Printf("Seeded %d payment events, %d refund events\n", payments, refunds)
}
