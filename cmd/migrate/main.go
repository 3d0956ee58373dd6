package main

import (
	"context" // Context for service calls
	"flag"    // Command line flags

	"invest_platform/internal/config"     // Custom import path (Config)
	"invest_platform/internal/db"         // Custom import path (Database)
	"invest_platform/internal/repository" // Persistence layer
	"invest_platform/internal/service"    // Use cases

	"github.com/shopspring/decimal" // Money arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// sampleCatalog is loaded by -seed on an empty catalog
var sampleCatalog = []service.OfferingInput{
	{
		Title:         "Debênture Energia Renovável",
		Description:   "Debênture incentivada para expansão de parques eólicos",
		Category:      "debentures",
		MinimumAmount: decimal.NewFromInt(1000),
		ReturnRate:    decimal.RequireFromString("13.50"),
		TermMonths:    36,
		TaxExempt:     true,
	},
	{
		Title:         "CRI Residencial São Paulo",
		Description:   "Recebíveis imobiliários lastreados em financiamentos residenciais",
		Category:      "cri",
		MinimumAmount: decimal.NewFromInt(500),
		ReturnRate:    decimal.RequireFromString("12.00"),
		TermMonths:    24,
		TaxExempt:     true,
	},
	{
		Title:         "CRA Agronegócio Centro-Oeste",
		Description:   "Recebíveis de cooperativas de grãos",
		Category:      "cra",
		MinimumAmount: decimal.NewFromInt(1000),
		ReturnRate:    decimal.RequireFromString("14.20"),
		TermMonths:    18,
		TaxExempt:     true,
	},
	{
		Title:         "Antecipação de Notas Fiscais Varejo",
		Description:   "Duplicatas de redes varejistas de médio porte",
		Category:      "notas_fiscais",
		MinimumAmount: decimal.NewFromInt(100),
		ReturnRate:    decimal.RequireFromString("16.80"),
		TermMonths:    6,
	},
	{
		Title:         "Precatório Federal 2026",
		Description:   "Cessão de crédito de precatório da União",
		Category:      "precatorios_federal",
		MinimumAmount: decimal.NewFromInt(5000),
		ReturnRate:    decimal.RequireFromString("18.00"),
		TermMonths:    30,
	},
}

// Main entry point for migration
func main() {
	seed := flag.Bool("seed", false, "load a sample catalog when no offering exists")
	promote := flag.String("promote", "", "CPF of an existing user to grant the admin role")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	ctx := context.Background()
	store := repository.NewGormStore(gdb)

	if *seed {
		catalog := service.NewCatalogService(store, nil)
		existing, err := catalog.ListOfferings(ctx, "")
		if err != nil {
			logrus.Fatalf("failed to read catalog: %v", err)
		}
		if len(existing) > 0 {
			logrus.WithFields(logrus.Fields{"offerings": len(existing)}).Info("Catalog not empty, skipping seed")
		} else {
			for _, in := range sampleCatalog {
				if _, err := catalog.CreateOffering(ctx, in); err != nil {
					logrus.Fatalf("failed to seed %q: %v", in.Title, err)
				}
			}
		}
	}

	if *promote != "" {
		if _, err := service.NewAdminService(store, nil).PromoteAdmin(ctx, *promote); err != nil {
			logrus.Fatalf("failed to promote %s: %v", *promote, err)
		}
	}
}
