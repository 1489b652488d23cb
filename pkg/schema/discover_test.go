// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

// newDeployCLI builds the cobra tree used across discovery tests:
//
//	myapp
//	├── deploy <target>   --env (choice, required), --force, --tag (multi)
//	└── db
//	    ├── migrate [steps]
//	    └── seed <file>...
func newDeployCLI(t *testing.T) *cobra.Command {
	t.Helper()

	root := &cobra.Command{Use: "myapp", Short: "Example application"}

	deploy := &cobra.Command{
		Use:   "deploy <target>",
		Short: "Deploy a target",
		Long:  "Deploy a target to the given environment.",
	}
	deploy.Flags().String("env", "", "target environment")
	deploy.Flags().Bool("force", false, "skip confirmation")
	deploy.Flags().StringSlice("tag", nil, "extra tags")
	if err := MarkFlagChoices(deploy, "env", "dev", "staging", "prod"); err != nil {
		t.Fatalf("MarkFlagChoices: %v", err)
	}
	if err := deploy.MarkFlagRequired("env"); err != nil {
		t.Fatalf("MarkFlagRequired: %v", err)
	}

	db := &cobra.Command{Use: "db", Short: "Database maintenance"}
	migrate := &cobra.Command{Use: "migrate [steps]", Short: "Run migrations"}
	seed := &cobra.Command{Use: "seed <file>...", Short: "Load seed data"}
	db.AddCommand(migrate, seed)

	root.AddCommand(deploy, db)
	return root
}

func TestDiscover_TreeShape(t *testing.T) {
	t.Parallel()

	cs, err := Discover(newDeployCLI(t))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if cs.Name != "myapp" {
		t.Errorf("root name = %q, want %q", cs.Name, "myapp")
	}
	if got := len(cs.Children); got != 2 {
		t.Fatalf("root children = %d, want 2", got)
	}
	// cobra sorts subcommands for display by default; discovery mirrors the
	// order the framework exposes.
	if cs.Children[0].Name != "db" || cs.Children[1].Name != "deploy" {
		t.Errorf("children order = [%s %s], want [db deploy]", cs.Children[0].Name, cs.Children[1].Name)
	}

	deploy := cs.Child("deploy")
	if deploy.Docstring != "Deploy a target to the given environment." {
		t.Errorf("deploy docstring = %q", deploy.Docstring)
	}
	if !cs.IsGroup() || deploy.IsGroup() {
		t.Error("IsGroup: root should be a group, deploy should not")
	}

	db := cs.Child("db")
	if got := len(db.Children); got != 2 {
		t.Fatalf("db children = %d, want 2", got)
	}

	// Short is the docstring fallback when Long is empty.
	if db.Docstring != "Database maintenance" {
		t.Errorf("db docstring = %q", db.Docstring)
	}
}

func TestDiscover_DeployParameters(t *testing.T) {
	t.Parallel()

	cs, err := Discover(newDeployCLI(t))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	deploy := cs.Child("deploy")

	want := []struct {
		name     string
		kind     ParameterKind
		typ      ValueType
		multiple bool
		required bool
	}{
		{"env", KindOption, TypeChoice, false, true},
		{"force", KindFlag, TypeBool, false, false},
		{"tag", KindOption, TypeString, true, false},
		{"target", KindArgument, TypeString, false, true},
	}

	if got := len(deploy.Parameters); got != len(want) {
		t.Fatalf("deploy parameters = %d, want %d", got, len(want))
	}
	for i, w := range want {
		p := deploy.Parameters[i]
		if p.Name != w.name || p.Kind != w.kind || p.Type != w.typ ||
			p.Multiple != w.multiple || p.Required != w.required {
			t.Errorf("parameter[%d] = {%s %s %s multiple=%v required=%v}, want %+v",
				i, p.Name, p.Kind, p.Type, p.Multiple, p.Required, w)
		}
	}

	env := deploy.Parameter("env")
	if got := len(env.Choices); got != 3 || env.Choices[2] != "prod" {
		t.Errorf("env choices = %v", env.Choices)
	}
}

func TestDiscover_PreservesFlagDeclarationOrder(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("zeta", "", "")
	cmd.Flags().String("alpha", "", "")
	cmd.Flags().String("mid", "", "")

	cs, err := Discover(cmd)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	var got []string
	for _, p := range cs.Parameters {
		got = append(got, p.Name)
	}
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parameter order = %v, want %v", got, want)
		}
	}
}

func TestDiscover_Defaults(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("env", "prod", "")
	cmd.Flags().String("name", "", "")
	cmd.Flags().Int("replicas", 0, "")
	cmd.Flags().Int("port", 8080, "")
	cmd.Flags().StringSlice("tag", []string{"a", "b"}, "")
	cmd.Flags().StringSlice("label", nil, "")

	cs, err := Discover(cmd)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	tests := []struct {
		name string
		want []string
	}{
		{"env", []string{"prod"}},
		{"name", nil},
		{"replicas", nil}, // zero value is not a meaningful default
		{"port", []string{"8080"}},
		{"tag", []string{"a", "b"}},
		{"label", nil},
	}
	for _, tt := range tests {
		p := cs.Parameter(tt.name)
		if len(p.Default) != len(tt.want) {
			t.Errorf("%s default = %v, want %v", tt.name, p.Default, tt.want)
			continue
		}
		for i := range tt.want {
			if p.Default[i] != tt.want[i] {
				t.Errorf("%s default = %v, want %v", tt.name, p.Default, tt.want)
			}
		}
	}
}

func TestDiscover_PathAnnotations(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("file", "", "input file")
	if err := cmd.MarkFlagFilename("file"); err != nil {
		t.Fatalf("MarkFlagFilename: %v", err)
	}

	cs, err := Discover(cmd)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := cs.Parameter("file").Type; got != TypePath {
		t.Errorf("file type = %s, want %s", got, TypePath)
	}
}

func TestDiscover_SkipsHiddenAndHouseholdCommands(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "myapp"}
	root.AddCommand(
		&cobra.Command{Use: "visible"},
		&cobra.Command{Use: "secret", Hidden: true},
		&cobra.Command{Use: "help"},
		&cobra.Command{Use: "completion"},
		&cobra.Command{Use: "tui"},
	)
	cs, err := Discover(root, WithSkipCommands("tui"))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := len(cs.Children); got != 1 || cs.Children[0].Name != "visible" {
		t.Fatalf("children = %d (%v), want only \"visible\"", got, cs.Children)
	}

	// WithHidden brings the hidden command back, but never help/completion.
	cs, err = Discover(root, WithSkipCommands("tui"), WithHidden())
	if err != nil {
		t.Fatalf("Discover with hidden: %v", err)
	}
	if got := len(cs.Children); got != 2 {
		t.Fatalf("children with hidden = %d, want 2", got)
	}
}

func TestDiscover_SkipsHiddenAndDeprecatedFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("keep", "", "")
	cmd.Flags().String("old", "", "")
	cmd.Flags().String("internal", "", "")
	if err := cmd.Flags().MarkDeprecated("old", "use --keep"); err != nil {
		t.Fatalf("MarkDeprecated: %v", err)
	}
	if err := cmd.Flags().MarkHidden("internal"); err != nil {
		t.Fatalf("MarkHidden: %v", err)
	}

	cs, err := Discover(cmd)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := len(cs.Parameters); got != 1 || cs.Parameters[0].Name != "keep" {
		t.Fatalf("parameters = %v, want only \"keep\"", cs.Parameters)
	}
}

func TestDiscover_FailsFast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() *cobra.Command
		sentinel error
	}{
		{
			name: "duplicate sibling names",
			build: func() *cobra.Command {
				root := &cobra.Command{Use: "myapp"}
				root.AddCommand(&cobra.Command{Use: "deploy"}, &cobra.Command{Use: "deploy"})
				return root
			},
			sentinel: ErrDuplicateCommand,
		},
		{
			name: "boolean flag declared as slice",
			build: func() *cobra.Command {
				cmd := &cobra.Command{Use: "run"}
				cmd.Flags().BoolSlice("toggle", nil, "")
				return cmd
			},
			sentinel: ErrConflictingKind,
		},
		{
			name: "bare word in Use line",
			build: func() *cobra.Command {
				return &cobra.Command{Use: "run target"}
			},
			sentinel: ErrBadArgumentToken,
		},
		{
			name: "duplicate argument placeholder",
			build: func() *cobra.Command {
				return &cobra.Command{Use: "run <x> <x>"}
			},
			sentinel: ErrBadArgumentToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cs, err := Discover(tt.build())
			if cs != nil {
				t.Error("partial schema returned alongside error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestDiscover_UseArgumentForms(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "copy <src>... [dest] [flags]"}
	cs, err := Discover(cmd)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if got := len(cs.Parameters); got != 2 {
		t.Fatalf("parameters = %d, want 2", got)
	}
	src, dest := cs.Parameters[0], cs.Parameters[1]
	if src.Name != "src" || !src.Required || !src.Multiple {
		t.Errorf("src = %+v, want required variadic", src)
	}
	if dest.Name != "dest" || dest.Required || dest.Multiple {
		t.Errorf("dest = %+v, want optional single", dest)
	}
}

func TestCommandSchema_Path(t *testing.T) {
	t.Parallel()

	cs, err := Discover(newDeployCLI(t))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	seed := cs.Child("db").Child("seed")
	path := seed.Path()

	var names []string
	for _, n := range path {
		names = append(names, n.Name)
	}
	want := []string{"myapp", "db", "seed"}
	if len(names) != len(want) {
		t.Fatalf("path = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("path = %v, want %v", names, want)
		}
	}

	if cs.Parent() != nil {
		t.Error("root Parent() should be nil")
	}
	if seed.Parent().Name != "db" {
		t.Errorf("seed parent = %q, want db", seed.Parent().Name)
	}
}

func TestCommandSchema_Walk(t *testing.T) {
	t.Parallel()

	cs, err := Discover(newDeployCLI(t))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	var order []string
	cs.Walk(func(n *CommandSchema) bool {
		order = append(order, n.Name)
		return true
	})
	want := []string{"myapp", "db", "migrate", "seed", "deploy"}
	if len(order) != len(want) {
		t.Fatalf("walk order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk order = %v, want %v", order, want)
		}
	}
}
