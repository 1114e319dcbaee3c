// corpsync downloads the DART corp-code registry to a local corpCodes.json
// snapshot and optionally loads it into the company directory database.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"dartlens/pkg/core/dart"
	"dartlens/pkg/core/directory"
)

func main() {
	out := flag.String("out", "corpCodes.json", "snapshot output path")
	load := flag.Bool("load", false, "also load the snapshot into the database")
	flag.Parse()

	godotenv.Load()
	ctx := context.Background()

	apiKey := os.Getenv("DART_API_KEY")
	if apiKey == "" {
		log.Fatal("[FATAL] DART_API_KEY not set")
	}

	client := dart.NewClient(apiKey)
	corps, err := client.DownloadCorpCodes(ctx)
	if err != nil {
		log.Fatalf("[FATAL] corp code download failed: %v", err)
	}
	if err := dart.SaveCorpCodes(corps, *out); err != nil {
		log.Fatalf("[FATAL] snapshot write failed: %v", err)
	}
	log.Printf("[CORPSYNC] %d개 회사 저장 완료: %s", len(corps), *out)

	if !*load {
		return
	}

	pool, err := directory.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("[FATAL] database connection failed: %v", err)
	}
	defer pool.Close()
	if err := directory.InitSchema(ctx, pool); err != nil {
		log.Fatalf("[FATAL] schema init failed: %v", err)
	}
	if err := directory.New(pool).LoadSnapshot(ctx, *out); err != nil {
		log.Fatalf("[FATAL] snapshot load failed: %v", err)
	}
}
