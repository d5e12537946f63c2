// Package setup provides the interactive terminal wizard that writes the
// tracker configuration file.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/akarpovich/cryptofolio/config"
	"github.com/akarpovich/cryptofolio/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes config.yaml.
func RunTUI() error {
	platform := config.PlatformCoingecko
	listenAddr := ":8080"
	dataDir := "./data"
	benchmark := "bitcoin"
	cacheTTLStr := "60s"
	confirm := false

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("CRYPTOFOLIO CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up your portfolio tracker.\n"))

	benchmarkOptions := make([]huh.Option[string], 0)
	for _, asset := range domain.SupportedAssets() {
		benchmarkOptions = append(benchmarkOptions, huh.NewOption(asset.Name, asset.ID))
	}

	fmt.Println(stepStyle.Render("STEP 1: PRICE SOURCE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your price source").
				Options(
					huh.NewOption("CoinGecko (no API keys needed)", config.PlatformCoingecko),
					huh.NewOption("Binance", config.PlatformBinance),
					huh.NewOption("Bybit", config.PlatformBybit),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: TRACKER SETTINGS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard listen address").
				Value(&listenAddr),
			huh.NewInput().
				Title("Data directory").
				Value(&dataDir),
			huh.NewSelect[string]().
				Title("Benchmark asset").
				Options(benchmarkOptions...).
				Value(&benchmark),
			huh.NewInput().
				Title("Price cache freshness window (e.g. 60s)").
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}).
				Value(&cacheTTLStr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: CONFIRM"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write config.yaml (platform %s, benchmark %s)?", platform, benchmark)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println("Aborted, nothing written.")
		return nil
	}

	ttl, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(map[string]any{
		"platform":        platform,
		"listen_addr":     listenAddr,
		"data_dir":        dataDir,
		"benchmark_asset": benchmark,
		"price_cache_ttl": ttl.String(),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile("config.yaml", out, 0o644); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("\nconfig.yaml written. Start the tracker with: cryptofolio --config config.yaml"))
	return nil
}
