package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIsomorphicRenamedVariables(t *testing.T) {
	_, ptrT := intPointerType()
	a1, b1 := NewVariable(), NewVariable()
	a2, b2 := NewVariable(), NewVariable()

	fl1 := FunctionLifetimes{
		Params: []ObjectLifetimes{
			NewReferenceLifetimes(ptrT, a1, NewValueLifetimes(ptrT.Pointee())),
			NewReferenceLifetimes(ptrT, b1, NewValueLifetimes(ptrT.Pointee())),
		},
		HasReturn: true,
		Return:    NewReferenceLifetimes(ptrT, a1, NewValueLifetimes(ptrT.Pointee())),
	}
	fl2 := FunctionLifetimes{
		Params: []ObjectLifetimes{
			NewReferenceLifetimes(ptrT, a2, NewValueLifetimes(ptrT.Pointee())),
			NewReferenceLifetimes(ptrT, b2, NewValueLifetimes(ptrT.Pointee())),
		},
		HasReturn: true,
		Return:    NewReferenceLifetimes(ptrT, a2, NewValueLifetimes(ptrT.Pointee())),
	}

	assert.True(t, IsIsomorphic(fl1, fl2))
}

func TestIsIsomorphicDifferentSharingPattern(t *testing.T) {
	_, ptrT := intPointerType()
	a, b := NewVariable(), NewVariable()

	shared := FunctionLifetimes{
		Params: []ObjectLifetimes{
			NewReferenceLifetimes(ptrT, a, NewValueLifetimes(ptrT.Pointee())),
			NewReferenceLifetimes(ptrT, b, NewValueLifetimes(ptrT.Pointee())),
		},
		HasReturn: true,
		Return:    NewReferenceLifetimes(ptrT, a, NewValueLifetimes(ptrT.Pointee())),
	}
	unshared := FunctionLifetimes{
		Params: []ObjectLifetimes{
			NewReferenceLifetimes(ptrT, a, NewValueLifetimes(ptrT.Pointee())),
			NewReferenceLifetimes(ptrT, b, NewValueLifetimes(ptrT.Pointee())),
		},
		HasReturn: true,
		Return:    NewReferenceLifetimes(ptrT, b, NewValueLifetimes(ptrT.Pointee())),
	}

	assert.False(t, IsIsomorphic(shared, unshared))
}

func TestIsIsomorphicStaticAndLocalMatterAbsolutely(t *testing.T) {
	_, ptrT := intPointerType()

	withStatic := FunctionLifetimes{
		HasReturn: true,
		Return:    NewReferenceLifetimes(ptrT, Static(), NewValueLifetimes(ptrT.Pointee())),
	}
	withVariable := FunctionLifetimes{
		HasReturn: true,
		Return:    NewReferenceLifetimes(ptrT, NewVariable(), NewValueLifetimes(ptrT.Pointee())),
	}

	assert.False(t, IsIsomorphic(withStatic, withVariable))
}
