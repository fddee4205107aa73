// Package main provides the teachers command-line tool for maintaining the
// teacher roster (teachers.json) and syncing it from the raw roster text.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"runde/internal/config"
	"runde/internal/export"
	"runde/internal/logger"
	"runde/internal/models"
	"runde/internal/roster"
	"runde/internal/store"
	"runde/pkg/textfmt"
)

const toolName = "teachers-cli"

var errUsage = errors.New("usage")

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)

	return nil
}

type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	norm  *roster.Normalizer
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
		norm:  roster.NewNormalizer(cfg.RosterRules()),
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
	fmt.Println("Usage: teachers <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                          print the roster, one line per role")
	fmt.Println("  validate                      batch-validate teachers.json")
	fmt.Println("  sync        [-source F] [-write]   sync roles and ordering from the raw roster text")
	fmt.Println("  export      [-out F]          render the roster as signed markdown")
	fmt.Println("  add-person  -name N [...]     add a teacher")
	fmt.Println("  add-role    -name N -department D -position P -order O")
	fmt.Println("  edit-person -name N [...]     edit photo/bio/summary/achievements")
	fmt.Println("  edit-role   -name N -role-index I [...]")
	fmt.Println("  remove-role -name N -role-index I")
	fmt.Println("  remove      -id ID            remove a teacher")
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

	case "sync":
		source := fs.String("source", "", "Raw roster text file (default from config)")
		write := fs.Bool("write", false, "Write the result back to teachers.json (with backup)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.sync(*source, *write)

	case "export":
		out := fs.String("out", "", "Output file (stdout when empty)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.export(*out)

	case "add-person":
		id := fs.String("id", "", "Optional id, derived from name by default")
		name := fs.String("name", "", "Teacher name (required)")
		photo := fs.String("photo", "", "Photo path")
		short := fs.String("short", "", "Short summary")
		bio := fs.String("bio", "", "Biography")

		var achievements stringList

		fs.Var(&achievements, "achievement", "Achievement (repeatable)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *name == "" {
			return 2, fmt.Errorf("%w: add-person requires -name", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.addPerson(*id, *name, *photo, *short, *bio, achievements)

	case "add-role":
		id := fs.String("id", "", "Teacher id (alternative to -name)")
		name := fs.String("name", "", "Teacher name (alternative to -id)")
		department := fs.String("department", "", "Department (required)")
		position := fs.String("position", "", "Position title (required)")
		order := fs.Int("order", 0, "Display rank (required)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.addRole(*id, *name, *department, *position, *order)

	case "edit-person":
		id := fs.String("id", "", "Teacher id (alternative to -name)")
		name := fs.String("name", "", "Teacher name (alternative to -id)")
		newName := fs.String("new-name", "", "Rename the teacher")
		photo := fs.String("photo", "", "New photo path (empty clears)")
		short := fs.String("short", "", "New short summary (empty clears)")
		bio := fs.String("bio", "", "New biography (empty clears)")
		clearAchievements := fs.Bool("clear-achievements", false, "Clear achievements")

		var achievements stringList

		fs.Var(&achievements, "achievement", "Append achievement (repeatable)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		set := visitedFlags(fs)

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.editPerson(*id, *name, editPersonArgs{
			newName:           *newName,
			photo:             *photo,
			photoSet:          set["photo"],
			short:             *short,
			shortSet:          set["short"],
			bio:               *bio,
			bioSet:            set["bio"],
			clearAchievements: *clearAchievements,
			achievements:      achievements,
		})

	case "edit-role":
		id := fs.String("id", "", "Teacher id (alternative to -name)")
		name := fs.String("name", "", "Teacher name (alternative to -id)")
		roleIndex := fs.Int("role-index", 0, "1-based role index (see list)")
		department := fs.String("department", "", "New department")
		position := fs.String("position", "", "New position title")
		order := fs.Int("order", 0, "New display rank")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		set := visitedFlags(fs)

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.editRole(*id, *name, *roleIndex, editRoleArgs{
			department:    *department,
			departmentSet: set["department"],
			position:      *position,
			positionSet:   set["position"],
			order:         *order,
			orderSet:      set["order"],
		})

	case "remove-role":
		id := fs.String("id", "", "Teacher id (alternative to -name)")
		name := fs.String("name", "", "Teacher name (alternative to -id)")
		roleIndex := fs.Int("role-index", 0, "1-based role index (see list)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.removeRole(*id, *name, *roleIndex)

	case "remove":
		id := fs.String("id", "", "Teacher id (required)")

		if err := fs.Parse(args); err != nil {
			return 2, err
		}

		if *id == "" {
			return 2, fmt.Errorf("%w: remove requires -id", errUsage)
		}

		a, err := newApp(*configPath)
		if err != nil {
			return 2, err
		}

		return a.remove(*id)

	default:
		return 1, errUsage
	}
}

func visitedFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return set
}

func (a *app) loadPeople() ([]models.Person, error) {
	return a.store.LoadPeople(a.cfg.Data.TeachersPath)
}

func (a *app) savePeople(people []models.Person) error {
	return a.store.SavePeople(a.cfg.Data.TeachersPath, people)
}

func (a *app) findPerson(people []models.Person, id, name string) *models.Person {
	for i := range people {
		if id != "" && people[i].ID == id {
			return &people[i]
		}

		if name != "" && people[i].Name == name {
			return &people[i]
		}
	}

	return nil
}

func (a *app) list() (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	var rows [][]string

	for i := range people {
		p := &people[i]
		if len(p.Roles) == 0 {
			rows = append(rows, []string{p.ID, p.Name, "(无岗位)"})

			continue
		}

		sorted := make([]models.Role, len(p.Roles))
		copy(sorted, p.Roles)
		roster.SortRoles(sorted)

		for _, r := range sorted {
			rows = append(rows, []string{
				p.ID, p.Name,
				"[" + r.Department + "]",
				r.Position,
				"order=" + strconv.Itoa(r.Order),
			})
		}
	}

	for _, line := range textfmt.RenderColumns(rows) {
		fmt.Println(line)
	}

	return 0, nil
}

func (a *app) validate() (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	problems := roster.Validate(people)
	if len(problems) == 0 {
		fmt.Printf("OK: %s 校验通过\n", a.cfg.Data.TeachersPath)

		return 0, nil
	}

	for _, p := range problems {
		fmt.Println(p)
	}

	fmt.Println("校验发现问题")

	return 1, nil
}

func (a *app) sync(source string, write bool) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	if source == "" {
		source = a.cfg.Data.SourcePath
	}

	text, err := a.store.ReadSource(source)
	if err != nil {
		return 2, err
	}

	syncer := roster.NewSyncer(a.norm, a.log)
	people, stats := syncer.Sync(people, text)

	if len(stats.Dropped) > 0 {
		a.log.Info("parser dropped name candidates", "count", len(stats.Dropped))
	}

	if !write {
		fmt.Printf("DRY RUN: 解析到 roles 条目: %d\n", stats.RolesParsed)
		fmt.Printf("DRY RUN: 合并后教师人数: %d\n", stats.People)
		fmt.Println("DRY RUN: 使用 -write 写入", a.cfg.Data.TeachersPath)

		return 0, nil
	}

	if err := a.savePeople(people); err != nil {
		return 2, err
	}

	if err := a.chlog.Append("从 " + source + " 同步岗位与排序（写入 teachers.json）"); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Printf("✅ 已写入 %s (已自动备份)\n", a.cfg.Data.TeachersPath)

	return 0, nil
}

func (a *app) export(out string) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	doc := export.ExportRoster(people, a.norm.Rules(), toolName)

	if out == "" {
		fmt.Print(doc)

		return 0, nil
	}

	if err := os.WriteFile(out, []byte(doc), 0644); err != nil {
		return 2, fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Println("✅ 已导出:", out)

	return 0, nil
}

func (a *app) addPerson(id, name, photo, short, bio string, achievements []string) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	if a.findPerson(people, "", name) != nil {
		fmt.Println("已存在同名教师:", name)

		return 1, nil
	}

	if id == "" {
		id = roster.CanonicalID(name)
	}

	existing := make(map[string]bool, len(people))
	for i := range people {
		existing[people[i].ID] = true
	}

	base := id
	for n := 1; existing[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}

	if photo == "" {
		photo = models.PlaceholderPhoto
	}

	if achievements == nil {
		achievements = []string{}
	}

	people = append(people, models.Person{
		ID:           id,
		Name:         name,
		Photo:        photo,
		ShortSummary: short,
		Bio:          bio,
		Achievements: achievements,
		Roles:        []models.Role{},
	})

	if err := a.savePeople(people); err != nil {
		return 2, err
	}

	if err := a.chlog.Append(fmt.Sprintf("添加教师(人): %s id=%s", name, id)); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已添加:", id)

	return 0, nil
}

func (a *app) addRole(id, name, department, position string, order int) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	teacher := a.findPerson(people, id, name)
	if teacher == nil {
		fmt.Println("未找到教师(请用 -id 或 -name):", id+name)

		return 1, nil
	}

	dept := a.norm.CleanDept(department)
	pos := roster.NormLine(position)

	if dept == "" || pos == "" {
		return 2, fmt.Errorf("%w: -department 与 -position 不能为空", errUsage)
	}

	teacher.Roles = roster.EnsureRole(teacher.Roles, models.Role{
		Department: dept,
		Position:   pos,
		Order:      order,
	})
	teacher.Roles = a.norm.NormalizeRoles(teacher.Roles)

	if err := a.savePeople(people); err != nil {
		return 2, err
	}

	msg := fmt.Sprintf("添加岗位: %s [%s] %s order=%d", teacher.Name, dept, pos, order)
	if err := a.chlog.Append(msg); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已添加岗位:", teacher.ID)

	return 0, nil
}

type editPersonArgs struct {
	newName           string
	photo             string
	photoSet          bool
	short             string
	shortSet          bool
	bio               string
	bioSet            bool
	clearAchievements bool
	achievements      []string
}

func (a *app) editPerson(id, name string, args editPersonArgs) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	teacher := a.findPerson(people, id, name)
	if teacher == nil {
		fmt.Println("未找到教师(请用 -id 或 -name):", id+name)

		return 1, nil
	}

	var changes []string

	if args.newName != "" {
		old := teacher.Name
		teacher.Name = a.norm.NormalizeName(args.newName)
		changes = append(changes, fmt.Sprintf("name:%s->%s", old, teacher.Name))
	}

	if args.photoSet {
		teacher.Photo = args.photo
		changes = append(changes, "photo")
	}

	if args.shortSet {
		teacher.ShortSummary = args.short
		changes = append(changes, "shortSummary")
	}

	if args.bioSet {
		teacher.Bio = args.bio
		changes = append(changes, "bio")
	}

	if args.clearAchievements {
		teacher.Achievements = []string{}
		changes = append(changes, "achievements:clear")
	}

	if len(args.achievements) > 0 {
		teacher.Achievements = append(teacher.Achievements, args.achievements...)
		changes = append(changes, fmt.Sprintf("achievements:+%d", len(args.achievements)))
	}

	teacher.Roles = a.norm.NormalizeRoles(teacher.Roles)

	if err := a.savePeople(people); err != nil {
		return 2, err
	}

	changed := "none"
	if len(changes) > 0 {
		changed = strings.Join(changes, ",")
	}

	if err := a.chlog.Append(fmt.Sprintf("编辑教师信息: %s changes=%s", teacher.Name, changed)); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已更新:", teacher.ID)

	return 0, nil
}

type editRoleArgs struct {
	department    string
	departmentSet bool
	position      string
	positionSet   bool
	order         int
	orderSet      bool
}

func (a *app) editRole(id, name string, roleIndex int, args editRoleArgs) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	teacher := a.findPerson(people, id, name)
	if teacher == nil {
		fmt.Println("未找到教师(请用 -id 或 -name):", id+name)

		return 1, nil
	}

	if len(teacher.Roles) == 0 {
		fmt.Println("该教师没有 roles")

		return 1, nil
	}

	idx := roleIndex - 1
	if idx < 0 || idx >= len(teacher.Roles) {
		return 2, fmt.Errorf("%w: -role-index 超出范围 (1..%d)", errUsage, len(teacher.Roles))
	}

	r := &teacher.Roles[idx]
	before := fmt.Sprintf("(%s, %s, %d)", r.Department, r.Position, r.Order)

	if args.departmentSet {
		r.Department = a.norm.CleanDept(args.department)
	}

	if args.positionSet {
		r.Position = roster.NormLine(args.position)
	}

	if args.orderSet {
		r.Order = args.order
	}

	teacher.Roles = a.norm.NormalizeRoles(teacher.Roles)
	roster.SortRoles(teacher.Roles)

	if err := a.savePeople(people); err != nil {
		return 2, err
	}

	msg := fmt.Sprintf("编辑岗位: %s idx=%d before=%s after_count=%d", teacher.Name, roleIndex, before, len(teacher.Roles))
	if err := a.chlog.Append(msg); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已更新岗位:", teacher.ID)

	return 0, nil
}

func (a *app) removeRole(id, name string, roleIndex int) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	teacher := a.findPerson(people, id, name)
	if teacher == nil {
		fmt.Println("未找到教师(请用 -id 或 -name):", id+name)

		return 1, nil
	}

	if len(teacher.Roles) == 0 {
		fmt.Println("该教师没有 roles")

		return 1, nil
	}

	idx := roleIndex - 1
	if idx < 0 || idx >= len(teacher.Roles) {
		return 2, fmt.Errorf("%w: -role-index 超出范围 (1..%d)", errUsage, len(teacher.Roles))
	}

	removed := teacher.Roles[idx]
	teacher.Roles = append(teacher.Roles[:idx], teacher.Roles[idx+1:]...)
	teacher.Roles = a.norm.NormalizeRoles(teacher.Roles)

	if err := a.savePeople(people); err != nil {
		return 2, err
	}

	msg := fmt.Sprintf("删除岗位: %s [%s] %s idx=%d", teacher.Name, removed.Department, removed.Position, roleIndex)
	if err := a.chlog.Append(msg); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已删除岗位:", teacher.ID)

	return 0, nil
}

func (a *app) remove(id string) (int, error) {
	people, err := a.loadPeople()
	if err != nil {
		return 2, err
	}

	kept := make([]models.Person, 0, len(people))
	for i := range people {
		if people[i].ID != id {
			kept = append(kept, people[i])
		}
	}

	if len(kept) == len(people) {
		fmt.Println("未找到 id:", id)

		return 1, nil
	}

	if err := a.savePeople(kept); err != nil {
		return 2, err
	}

	if err := a.chlog.Append("删除教师 id=" + id); err != nil {
		a.log.Warn("changelog append failed", "error", err)
	}

	fmt.Println("已删除 id=", id)

	return 0, nil
}
