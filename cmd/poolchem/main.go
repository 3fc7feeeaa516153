// Package main provides a one-shot pool chemistry evaluation from the
// command line. It runs the same engine as the API server but prints a
// plain-text report, so a reading can be checked without a running service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/deepbluepool/poolchem/internal/chemistry"
	"github.com/deepbluepool/poolchem/pkg/poolmath"
)

func main() {
	var (
		volume  = flag.Float64("volume", 0, "pool volume in gallons")
		length  = flag.Float64("length", 0, "pool length in feet (with -width and -depth, replaces -volume)")
		width   = flag.Float64("width", 0, "pool width in feet")
		depth   = flag.Float64("depth", 0, "average pool depth in feet")
		poolTyp = flag.String("type", "other", "pool type: concrete_gunite, vinyl, fiberglass or other")

		ph       = flag.Float64("ph", 0, "measured pH")
		chlorine = flag.Float64("chlorine", 0, "free chlorine in ppm")
		alk      = flag.Float64("alkalinity", 0, "total alkalinity in ppm")
		calcium  = flag.Float64("calcium", 0, "calcium hardness in ppm")
		temp     = flag.Float64("temp", poolmath.CelsiusToFahrenheit(26.0), "water temperature in Fahrenheit")
		cya      = flag.Float64("cya", 0, "cyanuric acid in ppm (omit to assume the default)")

		asJSON = flag.Bool("json", false, "print the raw evaluation result as JSON")
	)
	flag.Parse()

	cyaSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "cya" {
			cyaSet = true
		}
	})

	gallons := *volume
	if gallons == 0 && *length > 0 && *width > 0 && *depth > 0 {
		gallons = poolmath.VolumeGallons(*length, *width, *depth)
	}

	poolType, err := chemistry.ParsePoolType(*poolTyp)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	reading := chemistry.WaterTestReading{
		PH:              *ph,
		FreeChlorine:    *chlorine,
		TotalAlkalinity: *alk,
		CalciumHardness: *calcium,
		TemperatureF:    *temp,
	}
	if cyaSet {
		reading.CyanuricAcid = cya
	}

	engine := chemistry.NewEngine(chemistry.EngineConfig{})
	result, err := engine.Evaluate(context.Background(), chemistry.PoolProfile{
		Type:          poolType,
		VolumeGallons: gallons,
	}, reading)
	if err != nil {
		fmt.Fprintln(os.Stderr, "evaluation failed:", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	printReport(result, gallons)
}

func printReport(result *chemistry.EngineResult, gallons float64) {
	fmt.Printf("Pool Chemistry Report (%.0f gallons)\n", gallons)
	fmt.Println("====================================")
	fmt.Printf("Water Quality: %.1f (%s)\n", result.QualityScore, result.QualityStatus)
	fmt.Printf("Water Balance: %.2f (%s)\n", result.BalanceIndex, result.BalanceStatus)

	fmt.Println("\nRecommendations")
	fmt.Println("---------------")
	rec := result.Recommendations
	for _, line := range []struct{ label, text string }{
		{"pH", rec.PH},
		{"Chlorine", rec.Chlorine},
		{"Alkalinity", rec.Alkalinity},
		{"Calcium", rec.Calcium},
		{"Cyanuric Acid", rec.CyanuricAcid},
		{"Temperature", rec.Temperature},
		{"Water Balance", rec.WaterBalance},
	} {
		fmt.Printf("%-14s %s\n", line.label+":", line.text)
	}

	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings")
		fmt.Println("--------")
		for _, w := range result.Warnings {
			fmt.Println("-", w)
		}
	}

	if len(result.Steps) == 0 {
		fmt.Println("\nNo chemical additions required.")
		return
	}

	fmt.Println("\nTreatment Steps")
	fmt.Println("---------------")
	for _, step := range result.Steps {
		fmt.Printf("%d. %s - %s\n", step.Number, step.Chemical, step.Amount)
		for _, ins := range step.Instructions {
			fmt.Println("   *", ins)
		}
		if precautions, ok := precautionsFor(result, step.Chemical); ok {
			for _, p := range precautions {
				fmt.Println("   !", p)
			}
		}
	}
}

// precautionsFor finds the safety notes recorded for a treatment by its
// display name.
func precautionsFor(result *chemistry.EngineResult, chemical string) ([]string, bool) {
	keys := make([]chemistry.Treatment, 0, len(result.Precautions))
	for t := range result.Precautions {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, t := range keys {
		if t.DisplayName() == chemical {
			return result.Precautions[t], true
		}
	}
	return nil, false
}
