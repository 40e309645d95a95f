package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/campusware/degreeplanner/internal/app/models"
	"github.com/campusware/degreeplanner/internal/app/services"
	"github.com/campusware/degreeplanner/internal/bootstrap"
	"github.com/campusware/degreeplanner/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	studentID := flag.String("student", "", "student id to plan for")
	degreeCode := flag.String("degree", "", "degree code to plan against")
	priority := flag.String("priority", "", "optional optimization priority (e.g. MINIMIZE_TIME)")
	flag.Parse()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		os.Exit(1)
	}

	if *studentID == "" || *degreeCode == "" {
		logger.Error().Msg("Both -student and -degree are required")
		os.Exit(1)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		os.Exit(1)
	}
	defer dbPool.Close()

	planner := bootstrap.BuildPlanner(cfg, dbPool)

	ctx := context.Background()
	var output interface{}

	if *priority != "" {
		result, err := planner.OptimizePlan(ctx, services.OptimizeRequest{
			PlanRequest: services.PlanRequest{StudentID: *studentID, DegreeCode: *degreeCode},
			Priority:    models.OptimizationPriority(*priority),
		})
		if err != nil {
			logger.Error().Err(err).Msg("Plan optimization failed")
			os.Exit(1)
		}
		output = result
	} else {
		plan, err := planner.GeneratePlan(ctx, services.PlanRequest{
			StudentID:  *studentID,
			DegreeCode: *degreeCode,
		})
		if err != nil {
			logger.Error().Err(err).Msg("Plan generation failed")
			os.Exit(1)
		}
		output = plan
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		logger.Error().Err(err).Msg("Failed to encode result")
		os.Exit(1)
	}
}
