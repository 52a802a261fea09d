package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ocm.software/open-component-model/buildergen/internal/model"
)

var commandNames = Names{Record: "Command", Builder: "CommandBuilder"}

func names(storage, setter string) Names {
	n := commandNames
	n.Storage = storage
	n.Setter = setter
	return n
}

func TestSynthesizePlain(t *testing.T) {
	field := &model.Field{Name: "Executable"}
	c := model.Classification{Kind: model.Plain, Inner: "string"}

	f := Synthesize(names("executable", "Executable"), field, c)

	assert.Equal(t, "\texecutable *string\n", f.Storage)
	assert.Equal(t, `// Executable sets the Executable field.
func (b *CommandBuilder) Executable(value string) *CommandBuilder {
	b.executable = &value
	return b
}
`, f.Setter)
	assert.Equal(t, `	if b.executable == nil {
		return Command{}, errors.New("field \"Executable\" required, but not set yet.")
	}
`, f.Finalization)
	assert.Equal(t, "\t\tExecutable: *b.executable,\n", f.Literal)
}

func TestSynthesizePlainSlice(t *testing.T) {
	field := &model.Field{Name: "Env"}
	c := model.Classification{Kind: model.Plain, Inner: "[]string"}

	f := Synthesize(names("env", "Env"), field, c)

	assert.Equal(t, "\tenv *[]string\n", f.Storage)
	assert.Contains(t, f.Setter, "func (b *CommandBuilder) Env(value []string) *CommandBuilder {")
	assert.Contains(t, f.Finalization, `"field \"Env\" required, but not set yet."`)
	assert.Equal(t, "\t\tEnv: *b.env,\n", f.Literal)
}

func TestSynthesizeOptional(t *testing.T) {
	field := &model.Field{Name: "CurrentDir"}
	c := model.Classification{Kind: model.OptionalWrapped, Inner: "string"}

	f := Synthesize(names("currentDir", "CurrentDir"), field, c)

	assert.Equal(t, "\tcurrentDir *string\n", f.Storage)
	assert.Contains(t, f.Setter, "func (b *CommandBuilder) CurrentDir(value string) *CommandBuilder {")
	assert.Contains(t, f.Setter, "b.currentDir = &value")
	assert.Empty(t, f.Finalization)
	assert.Equal(t, "\t\tCurrentDir: b.currentDir,\n", f.Literal)
}

func TestSynthesizeRepeated(t *testing.T) {
	field := &model.Field{Name: "Args"}
	c := model.Classification{Kind: model.RepeatedAppend, Inner: "string", Each: "arg"}

	f := Synthesize(names("args", "Arg"), field, c)

	assert.Equal(t, "\targs []string\n", f.Storage)
	assert.Equal(t, `// Arg appends value to the Args field.
func (b *CommandBuilder) Arg(value string) *CommandBuilder {
	b.args = append(b.args, value)
	return b
}
`, f.Setter)
	assert.Empty(t, f.Finalization)
	assert.Equal(t, "\t\tArgs: b.args,\n", f.Literal)
}

func TestSynthesizeGeneric(t *testing.T) {
	field := &model.Field{Name: "Key"}
	c := model.Classification{Kind: model.Plain, Inner: "K"}
	n := Names{Record: "Pair[K, V]", Builder: "PairBuilder[K, V]", Storage: "key", Setter: "Key"}

	f := Synthesize(n, field, c)

	assert.Contains(t, f.Setter, "func (b *PairBuilder[K, V]) Key(value K) *PairBuilder[K, V] {")
	assert.Contains(t, f.Finalization, "return Pair[K, V]{}, errors.New(")
}

func TestMissingFieldMessage(t *testing.T) {
	assert.Equal(t, `field "current_dir" required, but not set yet.`, MissingFieldMessage("current_dir"))
}

func TestNames(t *testing.T) {
	tests := []struct {
		field   string
		c       model.Classification
		storage string
		setter  string
	}{
		{field: "Executable", storage: "executable", setter: "Executable"},
		{field: "currentDir", storage: "currentDir", setter: "CurrentDir"},
		{field: "Type", storage: "type_", setter: "Type"},
		{field: "URL", storage: "uRL", setter: "URL"},
		{field: "Args", c: model.Classification{Kind: model.RepeatedAppend, Each: "arg"}, storage: "args", setter: "Arg"},
		{field: "Env", c: model.Classification{Kind: model.RepeatedAppend, Each: "Env"}, storage: "env", setter: "Env"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.storage, StorageName(tt.field))
			assert.Equal(t, tt.setter, SetterName(tt.field, tt.c))
		})
	}

	assert.Equal(t, "CommandBuilder", BuilderName("Command"))
	assert.Equal(t, "NewCommandBuilder", ConstructorName("Command"))
	assert.Equal(t, "newCommandBuilder", ConstructorName("command"))
}

func TestFreeName(t *testing.T) {
	assert.Equal(t, "b", FreeName(Receiver, nil))
	assert.Equal(t, "b1", FreeName(Receiver, map[string]bool{"b": true}))
	assert.Equal(t, "value2", FreeName(Param, map[string]bool{"value": true, "value1": true}))
}

func TestSynthesizeRenamedReceiver(t *testing.T) {
	n := names("values", "Value")
	n.Receiver = "b1"
	n.Param = "value1"
	field := &model.Field{Name: "Values"}
	c := model.Classification{Kind: model.RepeatedAppend, Inner: "value", Each: "value"}

	f := Synthesize(n, field, c)

	assert.Equal(t, `// Value appends value1 to the Values field.
func (b1 *CommandBuilder) Value(value1 value) *CommandBuilder {
	b1.values = append(b1.values, value1)
	return b1
}
`, f.Setter)
	assert.Equal(t, "\t\tValues: b1.values,\n", f.Literal)
}
