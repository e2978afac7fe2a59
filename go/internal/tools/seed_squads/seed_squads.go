package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mwhite31/squadmarket/go/internal/dbconfig"
	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/squadgen"
)

// Seeds demo squads straight into Postgres for local development, bypassing
// the account event stream. Squads land in READY state with a full roster.
func main() {
	count := flag.Int("count", 10, "number of demo squads to create")
	prefix := flag.String("prefix", "demo-account", "account id prefix")
	flag.Parse()

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	generator := squadgen.NewGenerator(nil)

	var (
		inserted int
		skipped  int
		errs     int
	)

	for i := 0; i < *count; i++ {
		accountID := fmt.Sprintf("%s-%03d", *prefix, i)
		generated := generator.Generate(accountID)
		squadID := uuid.New()

		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO squads (id, account_id, name, budget, status)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (account_id) DO NOTHING
        `, squadID, accountID, generated.Name, generated.Budget, models.SquadStatusReady)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting squad for %s: %v\n", accountID, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() != 1 {
			skipped++
			continue
		}

		for _, p := range generated.Players {
			if _, err := pool.Exec(context.Background(), `
                INSERT INTO players (id, squad_id, position, full_name, value, transfer_status)
                VALUES ($1, $2, $3, $4, $5, $6)
            `, uuid.New(), squadID, p.Position, p.FullName, p.Value, models.TransferStatusNotListed); err != nil {
				fmt.Fprintf(os.Stderr, "error inserting player for %s: %v\n", accountID, err)
				errs++
			}
		}
		inserted++
	}

	fmt.Printf(
		"Squads seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		*count, inserted, skipped, errs,
	)
}
