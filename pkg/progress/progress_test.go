package progress_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/FAU-CDI/nightcap/pkg/progress"
	"github.com/stretchr/testify/assert"
)

func ExampleCounter() {
	var builder strings.Builder

	counter := &progress.Counter{
		Rewritable: progress.Rewritable{
			FlushInterval: 0,
			Writer:        &builder,
		},
	}

	counter.Set("load", 5, 12000)
	counter.Set("load", 12000, 12000)

	fmt.Println(strings.ReplaceAll(builder.String(), "\r", "\n"))

	// Output: load:      5/12,000
	// load: 12,000
}

func TestRewritable(t *testing.T) {
	var builder strings.Builder
	rw := &progress.Rewritable{Writer: &builder}

	rw.Write("a long line")
	rw.Write("short")
	rw.Close()

	// shorter lines blank out what is left of longer ones
	assert.Equal(t, "\ra long line\rshort      \r           \r", builder.String())

	// a nil writer discards everything
	(&progress.Rewritable{}).Write("ignored")
}
