package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/hartstack/machine"
)

func doMachine(t *testing.T) (m *machine.Machine) {
	assert := assert.New(t)

	m, err := machine.NewMachine(2, 16384, 4096)
	assert.NoError(err)

	return
}

func doRun(t *testing.T, m *machine.Machine, script []string) (output string) {
	assert := assert.New(t)

	sc := NewScenario(m)
	buf := &bytes.Buffer{}
	sc.Output = buf

	err := sc.Run("test.star", strings.NewReader(strings.Join(script, "\n")))
	assert.NoError(err)

	output = buf.String()
	return
}

func TestScenario(t *testing.T) {
	assert := assert.New(t)

	sc := NewScenario(doMachine(t))

	assert.False(sc.Verbose)
	assert.NotNil(sc.Machine)
	assert.NotNil(sc.Output)
}

func TestScenario_Metrics(t *testing.T) {
	assert := assert.New(t)

	output := doRun(t, doMachine(t), []string{
		`push(2048)`,
		`print(stack_size(), in_use(), free(), fraction())`,
	})

	assert.Equal("4096 2048 2048 0.5\n", output)
}

func TestScenario_Watermark(t *testing.T) {
	assert := assert.New(t)

	output := doRun(t, doMachine(t), []string{
		`paint()`,
		`push(1024)`,
		`pop(1024)`,
		`print(watermark(), watermark_binary())`,
	})

	// The retreated excursion stays visible in the paint.
	assert.Equal("3072 3072\n", output)
}

func TestScenario_Irq(t *testing.T) {
	assert := assert.New(t)

	output := doRun(t, doMachine(t), []string{
		`paint()`,
		`irq(512)`,
		`print(in_use(), watermark())`,
	})

	// The interrupt frame is gone from sp but not from the paint.
	assert.Equal("0 3584\n", output)
}

func TestScenario_Poke(t *testing.T) {
	assert := assert.New(t)

	output := doRun(t, doMachine(t), []string{
		`paint()`,
		`poke(256, 0x0BADF00D)`,
		`print(watermark())`,
	})

	assert.Equal("256\n", output)
}

func TestScenario_Hart(t *testing.T) {
	assert := assert.New(t)

	output := doRun(t, doMachine(t), []string{
		`hart(1)`,
		`push(512)`,
		`hart(0)`,
		`print(in_use())`,
		`hart(1)`,
		`print(in_use())`,
	})

	// Each hart's stack is disjoint state.
	assert.Equal("0\n512\n", output)
}

func TestScenario_Constants(t *testing.T) {
	assert := assert.New(t)

	output := doRun(t, doMachine(t), []string{
		`print(PAINT_VALUE == 0xCCCCCCCC, WORD_SIZE, HARTS)`,
	})

	assert.Equal("True 4 2\n", output)
}

func TestScenario_RunError(t *testing.T) {
	assert := assert.New(t)

	sc := NewScenario(doMachine(t))
	sc.Output = &bytes.Buffer{}

	err := sc.Run("test.star", strings.NewReader(`pop(4)`))
	assert.Error(err)

	script := &ErrScript{}
	assert.ErrorAs(err, &script)
	assert.Equal("test.star", script.Name)
	assert.ErrorIs(err, machine.ErrStackUnderflow)
}

func TestScenario_SyntaxError(t *testing.T) {
	assert := assert.New(t)

	sc := NewScenario(doMachine(t))
	sc.Output = &bytes.Buffer{}

	err := sc.Run("test.star", strings.NewReader(`push(`))
	script := &ErrScript{}
	assert.ErrorAs(err, &script)
}

func TestScenario_Defines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	sc := NewScenario(doMachine(t))
	for key, value := range sc.Defines() {
		defines[key] = value
	}

	assert.Equal("2", defines["HARTS"])
	assert.Equal("4096", defines["HART_SIZE"])
	assert.Equal("0xcccccccc", defines["PAINT_VALUE"])
	assert.Contains(defines, "RAM_BASE")
	assert.Contains(defines, "STACK_TOP")
}
