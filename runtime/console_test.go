/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package runtime

import (
	"io"
	"os"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe failed: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured stdout failed: %v", err)
	}
	return string(out)
}

func TestLogStringWritesLiteralText(t *testing.T) {
	c := NewContext()
	lit := c.InternLiteral("hello world")
	out := captureStdout(t, func() { c.logString(lit) })
	if out != "hello world" {
		t.Fatalf("log_string wrote %q, want %q", out, "hello world")
	}
}

func TestLogNumberFormatsFloat(t *testing.T) {
	c := NewContext()
	out := captureStdout(t, func() { c.logNumber(bits(3.5)) })
	if out != "3.5" {
		t.Fatalf("log_number wrote %q, want 3.5", out)
	}
}

func TestLogArrayFormatsElements(t *testing.T) {
	c := NewContext()
	id := c.arrayCreate()
	c.arrayPush(id, bits(1))
	c.arrayPush(id, bits(2))
	out := captureStdout(t, func() { c.logArray(id) })
	if out != "[ 1, 2 ]" {
		t.Fatalf("log_array wrote %q, want \"[ 1, 2 ]\"", out)
	}
}

func TestLogArrayUnknownIDPrintsEmpty(t *testing.T) {
	c := NewContext()
	out := captureStdout(t, func() { c.logArray(99999) })
	if out != "[]" {
		t.Fatalf("log_array on an unknown id wrote %q, want []", out)
	}
}

func TestLogObjectFormatsFields(t *testing.T) {
	c := NewContext()
	id := c.objectCreate(c.InternLiteral("Point"), 1)
	c.objectSetPropertyName(id, 0, c.InternLiteral("x"))
	c.objectSetProperty(id, 0, 7)
	out := captureStdout(t, func() { c.logObject(id) })
	if out != "Point { x: 7 }" {
		t.Fatalf("log_object wrote %q, want \"Point { x: 7 }\"", out)
	}
}

func TestLogAutoPrintsRawRegister(t *testing.T) {
	c := NewContext()
	out := captureStdout(t, func() { c.logAuto(42) })
	if out != "42" {
		t.Fatalf("log_auto wrote %q, want 42", out)
	}
}

func TestConsoleTimeAndTimeEnd(t *testing.T) {
	c := NewContext()
	label := c.InternLiteral("bench")
	c.consoleTime(label)
	out := captureStdout(t, func() { c.consoleTimeEnd(label) })
	if len(out) == 0 {
		t.Fatal("console.timeEnd should print a non-empty elapsed-time line")
	}
}

func TestLogSpaceAndNewline(t *testing.T) {
	c := NewContext()
	out := captureStdout(t, func() {
		c.logSpace()
		c.logNewline()
	})
	if out != " \n" {
		t.Fatalf("logSpace+logNewline wrote %q, want \" \\n\"", out)
	}
}
