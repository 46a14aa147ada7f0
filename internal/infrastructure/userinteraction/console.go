package userinteraction

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"docproc/internal/application/port/output"
	"docproc/internal/application/usecase"
	"docproc/internal/infrastructure/prompts"

	"github.com/fatih/color"
)

// Console runs the guided parameter wizard and renders the run summary.
type Console struct {
	reader *bufio.Reader
	files  output.FileStorePort
}

func NewConsole(files output.FileStorePort) *Console {
	return &Console{
		reader: bufio.NewReader(os.Stdin),
		files:  files,
	}
}

// CollectBatchConfig walks the user through every batch parameter and asks
// for confirmation. The second return value is false when the user aborted.
func (c *Console) CollectBatchConfig() (usecase.BatchConfig, bool, error) {
	c.printWelcome()

	cfg := usecase.BatchConfig{
		Concurrency: 3,
		MaxRetries:  3,
	}

	inputDir, ok, err := c.askInputDir()
	if err != nil || !ok {
		return cfg, false, err
	}
	cfg.InputDir = inputDir

	outputDir, ok, err := c.askOutputDir()
	if err != nil || !ok {
		return cfg, false, err
	}
	cfg.OutputDir = outputDir

	templateFile, ok, err := c.askTemplateFile()
	if err != nil || !ok {
		return cfg, false, err
	}
	cfg.TemplateFile = templateFile

	tier, err := c.askQualityTier()
	if err != nil {
		return cfg, false, err
	}
	switch tier {
	case "standard":
		cfg.QualityStandards = prompts.StandardsStandard
	case "high":
		cfg.QualityStandards = prompts.StandardsHigh
	}

	concurrency, err := c.askConcurrency()
	if err != nil {
		return cfg, false, err
	}
	cfg.Concurrency = concurrency

	custom, err := c.ask("Custom prompt (optional): ")
	if err != nil {
		return cfg, false, err
	}
	cfg.CustomInstruction = custom

	skip, err := c.askYesNo("Skip already processed files? (y/n) [n]: ", false)
	if err != nil {
		return cfg, false, err
	}
	cfg.SkipProcessed = skip

	confirmed, err := c.confirm(cfg, tier)
	return cfg, confirmed, err
}

func (c *Console) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\nDocument Batch Processor")
	fmt.Println("Answer the prompts to configure a run. Enter 'q' at any path prompt to abort.")
}

func (c *Console) askInputDir() (string, bool, error) {
	for {
		path, err := c.ask("Input directory: ")
		if err != nil {
			return "", false, err
		}
		if path == "q" {
			return "", false, nil
		}
		if !c.files.IsDir(path) {
			c.warn("Not a directory: %s", path)
			continue
		}
		docs, err := c.files.ListFiles(path, ".md")
		if err != nil {
			c.warn("Cannot list directory: %v", err)
			continue
		}
		if len(docs) == 0 {
			c.warn("No markdown files in %s", path)
		}
		return path, true, nil
	}
}

func (c *Console) askOutputDir() (string, bool, error) {
	for {
		path, err := c.ask("Output directory: ")
		if err != nil {
			return "", false, err
		}
		if path == "q" {
			return "", false, nil
		}
		if path == "" {
			c.warn("Output directory is required")
			continue
		}
		if !c.files.Exists(path) {
			create, err := c.askYesNo(fmt.Sprintf("%s does not exist. Create it? (y/n) [y]: ", path), true)
			if err != nil {
				return "", false, err
			}
			if !create {
				continue
			}
			if err := c.files.EnsureDir(path); err != nil {
				c.warn("Cannot create directory: %v", err)
				continue
			}
		}
		return path, true, nil
	}
}

func (c *Console) askTemplateFile() (string, bool, error) {
	for {
		path, err := c.ask("Template file: ")
		if err != nil {
			return "", false, err
		}
		if path == "q" {
			return "", false, nil
		}
		if !c.files.IsFile(path) {
			c.warn("Not a file: %s", path)
			continue
		}
		return path, true, nil
	}
}

func (c *Console) askQualityTier() (string, error) {
	fmt.Println("\nQuality standard:")
	fmt.Println("  minimal  - no verification pass")
	fmt.Println("  standard - verify against the standard checklist (default)")
	fmt.Println("  high     - verify against the strict checklist")
	for {
		tier, err := c.ask("Quality standard [standard]: ")
		if err != nil {
			return "", err
		}
		tier = strings.ToLower(tier)
		if tier == "" {
			return "standard", nil
		}
		if tier == "minimal" || tier == "standard" || tier == "high" {
			return tier, nil
		}
		c.warn("Choose: minimal, standard, or high")
	}
}

func (c *Console) askConcurrency() (int, error) {
	for {
		raw, err := c.ask("Max concurrent files (1-10) [3]: ")
		if err != nil {
			return 0, err
		}
		if raw == "" {
			return 3, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			c.warn("Concurrency must be a number between 1 and 10")
			continue
		}
		return n, nil
	}
}

func (c *Console) confirm(cfg usecase.BatchConfig, tier string) (bool, error) {
	docs, _ := c.files.ListFiles(cfg.InputDir, ".md")

	bold := color.New(color.Bold)
	bold.Println("\nCONFIGURATION SUMMARY")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Input directory:  %s (%d markdown files)\n", cfg.InputDir, len(docs))
	fmt.Printf("Output directory: %s\n", cfg.OutputDir)
	fmt.Printf("Template file:    %s\n", cfg.TemplateFile)
	fmt.Printf("Quality standard: %s\n", tier)
	fmt.Printf("Concurrency:      %d\n", cfg.Concurrency)
	if cfg.CustomInstruction != "" {
		fmt.Println("Custom prompt:    yes")
	}
	if cfg.SkipProcessed {
		fmt.Println("Skip processed:   yes")
	}
	fmt.Println(strings.Repeat("=", 50))

	return c.askYesNo("Proceed with this configuration? (y/n): ", false)
}

func (c *Console) ask(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) askYesNo(prompt string, defaultYes bool) (bool, error) {
	for {
		answer, err := c.ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.warn("Please answer 'y' or 'n'")
	}
}

func (c *Console) warn(format string, args ...any) {
	yellow := color.New(color.FgYellow)
	yellow.Printf(format+"\n", args...)
}
