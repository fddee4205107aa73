// Package main provides the students command-line tool for maintaining the
// admitted-students list (students.json).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"runde/internal/config"
	"runde/internal/logger"
	"runde/internal/models"
	"runde/internal/store"
	"runde/internal/students"
	"runde/pkg/textfmt"
)

const toolName = "students-cli"

var errUsage = errors.New("usage")

type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	chlog *store.Changelog
}

func newApp(configPath string) (*app, error) {
	cfg := config.Default()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	return &app{
		cfg:   cfg,
		log:   logger.New(cfg.Logging.Level),
		store: store.New(cfg.Data.CreateBackup),
		chlog: store.NewChangelog(cfg.Data.ChangelogPath, toolName),
	}, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	code, err := run(os.Args[1], os.Args[2:])
	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}

		if code == 0 {
			code = 1
		}
	}

	os.Exit(code)
}

func printUsage() {
	fmt.Println("Usage: students <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                        print the admissions list")
	fmt.Println("  validate                    batch-validate students.json")
	fmt.Println("  apply-rules [-write]        normalize fields and ordering")
	fmt.Println("  add-student -name N -school S -major M [-year Y] [-photo P]")
	fmt.Println("  add-admission -name N -image I [-watermarked] [-note T]")
	fmt.Println()
	fmt.Println("All commands accept -config <file> (YAML).")
}

func run(cmd string, args []string) (int, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML configuration file")

	switch cmd {
	case "list":
		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.list()

	case "validate":
		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.validate()

	case "apply-rules":
		write := fs.Bool("write", false, "Write the normalized list back (with backup)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.applyRules(*write)

	case "add-student":
		name := fs.String("name", "", "Student name (required)")
		school := fs.String("school", "", "Admitting school (required)")
		major := fs.String("major", "", "Major (required)")
		year := fs.Int("year", 0, "Admission year")
		photo := fs.String("photo", "", "Photo path")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *name == "" || *school == "" || *major == "" {
			return 2, fmt.Errorf("%w: add-student requires -name, -school and -major", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		var yearPtr *int
		if *year != 0 {
			yearPtr = year
		}

		return a.addStudent(*name, *school, *major, yearPtr, *photo)

	case "add-admission":
		id := fs.String("id", "", "Student id (alternative to -name)")
		name := fs.String("name", "", "Student name (alternative to -id)")
		image := fs.String("image", "", "Admission screenshot path (required)")
		watermarked := fs.Bool("watermarked", false, "Mark the screenshot as already watermarked")
		note := fs.String("note", "", "Optional note")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *image == "" {
			return 2, fmt.Errorf("%w: add-admission requires -image", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.addAdmission(*id, *name, *image, *watermarked, *note)

	default:
		return 1, errUsage
	}
}

func (a *app) load() ([]models.Student, error) {
	return a.store.LoadStudents(a.cfg.Data.StudentsPath)
}

func (a *app) save(list []models.Student) error {
	return a.store.SaveStudents(a.cfg.Data.StudentsPath, list)
}

func (a *app) list() (int, error) {
	list, err := a.load()
	if err != nil {
		return 2, err
	}

	var rows [][]string

	for _, s := range list {
		year := "-"
		if s.Year != nil {
			year = strconv.Itoa(*s.Year)
		}

		rows = append(rows, []string{
			s.ID, s.Name, s.School, s.Major, year,
			fmt.Sprintf("admissions=%d", len(s.Admissions)),
		})
	}

	for _, line := range textfmt.RenderColumns(rows) {
		fmt.Println(line)
	}

	return 0, nil
}

func (a *app) validate() (int, error) {
	list, err := a.load()
	if err != nil {
		return 2, err
	}

	problems := students.Validate(list)
	if len(problems) == 0 {
		fmt.Printf("OK: %s 校验通过\n", a.cfg.Data.StudentsPath)

		return 0, nil
	}

	for _, p := range problems {
		fmt.Println(p)
	}

	fmt.Println("校验发现问题")

	return 1, nil
}

func (a *app) applyRules(write bool) (int, error) {
	list, err := a.load()
	if err != nil {
		return 2, err
	}

	normalized, problems := students.Normalize(list)

	for _, p := range problems {
		fmt.Println(p)
	}

	if !write {
		fmt.Printf("DRY RUN: 学生人数: %d, 校验问题: %d\n", len(normalized), len(problems))
		fmt.Println("DRY RUN: 使用 -write 写入", a.cfg.Data.StudentsPath)

		return 0, nil
	}

	if err := a.save(normalized); err != nil {
		return 2, err
	}

	if err := a.chlog.Append("规范化 students.json 并排序"); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Printf("✅ 已写入 %s (已自动备份)\n", a.cfg.Data.StudentsPath)

	return 0, nil
}

func (a *app) addStudent(name, school, major string, year *int, photo string) (int, error) {
	list, err := a.load()
	if err != nil {
		return 2, err
	}

	id := students.UniqueID(students.CanonicalID(name, school, year), list)

	list = append(list, models.Student{
		ID:         id,
		Name:       name,
		School:     school,
		Major:      major,
		Year:       year,
		Photo:      photo,
		Admissions: []models.Admission{},
	})

	students.Sort(list)

	if err := a.save(list); err != nil {
		return 2, err
	}

	if err := a.chlog.Append(fmt.Sprintf("添加学生: %s %s id=%s", name, school, id)); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已添加:", id)

	return 0, nil
}

func (a *app) addAdmission(id, name, image string, watermarked bool, note string) (int, error) {
	list, err := a.load()
	if err != nil {
		return 2, err
	}

	s := students.Find(list, id, name)
	if s == nil {
		fmt.Println("未找到学生(请用 -id 或 -name):", id+name)

		return 1, nil
	}

	s.Admissions = append(s.Admissions, models.Admission{
		Image:       image,
		Watermarked: watermarked,
		Note:        note,
	})

	if err := a.save(list); err != nil {
		return 2, err
	}

	if err := a.chlog.Append(fmt.Sprintf("添加录取截图: %s %s", s.Name, image)); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已添加录取截图:", s.ID)

	return 0, nil
}
