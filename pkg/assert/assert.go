// Package assert offers testify assertions to code running inside kosu
// tests, where no *testing.T exists. A failed assertion stops the running
// test with a *model.AssertionError carrying the testify message.
//
//	func (s *CartSuite) AddsItems() {
//	    a := assert.New()
//	    a.Equal(2, s.cart.Len())
//	}
package assert

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Assert embeds the full set of require assertions. Every assertion fails
// fast.
type Assert struct {
	*require.Assertions
}

// failingT collects the messages testify reports and raises them on FailNow.
type failingT struct {
	messages []string
}

func (t *failingT) Errorf(format string, args ...any) {
	t.messages = append(t.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (t *failingT) FailNow() {
	message := strings.Join(t.messages, "\n")
	t.messages = nil
	panic(&model.AssertionError{Message: message})
}

func (t *failingT) Helper() {}

func New() *Assert {
	return &Assert{Assertions: require.New(&failingT{})}
}

// Check runs fn and returns the failure of its first failed assertion, nil
// when all of them held. Other panics are not recovered.
func Check(fn func(a *Assert)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			assertionErr, ok := r.(*model.AssertionError)
			if !ok {
				panic(r)
			}
			err = assertionErr
		}
	}()
	fn(New())
	return nil
}
