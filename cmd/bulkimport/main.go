// Package main provides the bulkimport command-line tool: it reconciles an
// exported teachers or students JSON file against the live data file by
// record id, then runs the matching normalization pipeline before writing.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"runde/internal/config"
	"runde/internal/importer"
	"runde/internal/logger"
	"runde/internal/models"
	"runde/internal/roster"
	"runde/internal/store"
	"runde/internal/students"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	kind := flag.String("kind", "", "Data kind: teachers or students")
	file := flag.String("file", "", "Incoming JSON file to import")
	mode := flag.String("mode", importer.ModeMerge, "merge (update incoming keys) or replace (overwrite records)")
	write := flag.Bool("write", false, "Write the result back (with backup)")
	flag.Parse()

	if *kind == "" || *file == "" {
		fmt.Println("Usage: bulkimport -kind teachers|students -file <export.json> [-mode merge|replace] [-write]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatal(err)
		}

		cfg = loaded
	}

	log := logger.New(cfg.Logging.Level)
	st := store.New(cfg.Data.CreateBackup)
	chlog := store.NewChangelog(cfg.Data.ChangelogPath, "bulkimport-cli")

	var (
		target string
		count  int
		res    importer.Result
		save   func() error
	)

	switch *kind {
	case "teachers":
		target = cfg.Data.TeachersPath

		merged, r, err := mergeRaw(target, *file, *mode)
		if err != nil {
			fatal(err)
		}

		res = r

		var people []models.Person
		if err := reencode(merged, &people); err != nil {
			fatal(err)
		}

		norm := roster.NewNormalizer(cfg.RosterRules())
		people = norm.NormalizeAll(people)
		count = len(people)
		save = func() error { return st.SavePeople(target, people) }

	case "students":
		target = cfg.Data.StudentsPath

		merged, r, err := mergeRaw(target, *file, *mode)
		if err != nil {
			fatal(err)
		}

		res = r

		var list []models.Student
		if err := reencode(merged, &list); err != nil {
			fatal(err)
		}

		normalized, problems := students.Normalize(list)
		for _, p := range problems {
			fmt.Println(p)
		}

		count = len(normalized)
		save = func() error { return st.SaveStudents(target, normalized) }

	default:
		fatal(fmt.Errorf("unknown -kind %q (want teachers or students)", *kind))
	}

	fmt.Printf("导入统计: 新增 %d, 更新 %d, 跳过 %d, 合计 %d\n", res.Created, res.Updated, res.Skipped, count)

	if !*write {
		fmt.Println("DRY RUN: 使用 -write 写入", target)

		return
	}

	if err := save(); err != nil {
		fatal(err)
	}

	if err := chlog.Append(fmt.Sprintf("批量导入 %s: +%d/~%d mode=%s", *kind, res.Created, res.Updated, *mode)); err != nil {
		log.Warn("changelog append failed", "error", err)
	}

	fmt.Printf("✅ 已写入 %s (已自动备份)\n", target)
}

// mergeRaw loads both files as generic JSON records and folds the incoming
// ones into the existing list by id.
func mergeRaw(targetPath, incomingPath, mode string) ([]map[string]any, importer.Result, error) {
	existing, err := readRecords(targetPath, false)
	if err != nil {
		return nil, importer.Result{}, err
	}

	incoming, err := readRecords(incomingPath, true)
	if err != nil {
		return nil, importer.Result{}, err
	}

	return importer.MergeByID(existing, incoming, mode)
}

func readRecords(path string, required bool) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return []map[string]any{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return records, nil
}

// reencode converts generic records into the typed model via JSON.
func reencode(records []map[string]any, v any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to re-encode records: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}

	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(2)
}
