package cpf_test

import (
	"fmt"
	"testing"

	"foodstack-pos/pkg/cpf"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"52998224725", true},
		{"529.982.247-25", true},
		{"111.444.777-35", true},
		{"52998224726", false},
		{"11111111111", false},
		{"00000000000", false},
		{"5299822472", false},
		{"529982247250", false},
		{"", false},
		{"abc", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, cpf.Valid(tc.in), "cpf.Valid(%q)", tc.in)
	}
}

func TestValid_AlteringLastDigitFlipsResult(t *testing.T) {
	valid := "11144477735"
	assert.True(t, cpf.Valid(valid))

	for d := byte('0'); d <= '9'; d++ {
		if d == valid[10] {
			continue
		}
		altered := valid[:10] + string(d)
		assert.False(t, cpf.Valid(altered), "expected %s to be invalid", altered)
	}
}

func TestValid_AllRepeatedDigitsRejected(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		s := ""
		for i := 0; i < cpf.Length; i++ {
			s += string(d)
		}
		assert.False(t, cpf.Valid(s), s)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "52998224725", cpf.Normalize(" 529.982.247-25 "))
	assert.Equal(t, "", cpf.Normalize("no digits"))
}

func ExampleFormat() {
	fmt.Println(cpf.Format("52998224725"))
	fmt.Println(cpf.Format("123"))
	// Output:
	// 529.982.247-25
	// 123
}
