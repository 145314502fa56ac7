package client

import "testing"

func TestPortArgFor(t *testing.T) {
	cases := []struct {
		addr string
		want string
	}{
		{"127.0.0.1:2121", "127,0,0,1,8,73"},
		{"127.0.0.1:21", "127,0,0,1,0,21"},
		{"0.0.0.0:80", "127,0,0,1,0,80"},
	}

	for _, tc := range cases {
		got, err := portArgFor(tc.addr)
		if err != nil {
			t.Fatalf("portArgFor(%q): %v", tc.addr, err)
		}
		if got != tc.want {
			t.Errorf("portArgFor(%q) = %q, want %q", tc.addr, got, tc.want)
		}
	}
}

func TestFilenameOf(t *testing.T) {
	cases := map[string]string{
		"hello.bin":           "hello.bin",
		"./dir/hello.bin":     "hello.bin",
		"/abs/path/file.txt":  "file.txt",
		"win\\dir\\file.txt":  "file.txt",
	}
	for in, want := range cases {
		if got := filenameOf(in); got != want {
			t.Errorf("filenameOf(%q) = %q, want %q", in, got, want)
		}
	}
}
