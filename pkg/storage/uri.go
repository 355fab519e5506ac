package storage

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

type Scheme string

const (
	FileScheme  = Scheme("file")
	StdioScheme = Scheme("stdio")
	S3Scheme    = Scheme("s3")
)

const (
	Stdin  = "stdio:///stdin"
	Stdout = "stdio:///stdout"
)

type URI url.URL

// uriRegexp decides whether a path is treated as a URI.  A path's prefix
// must be in the form of scheme://path.  Anything else, including
// scheme:path, is read as a file path.
var uriRegexp = regexp.MustCompile("^[a-zA-Z][a-zA-Z0-9+-.]*://")

// ParseURI parses path as a URI.  The names "-", "stdin", and "stdout" map
// to the stdio scheme and paths without a scheme map to absolute file
// URIs.  An empty path yields a zero URI.
func ParseURI(path string) (*URI, error) {
	switch path {
	case "":
		return &URI{}, nil
	case "-", "stdin":
		return &URI{Scheme: string(StdioScheme), Path: "/stdin"}, nil
	case "stdout":
		return &URI{Scheme: string(StdioScheme), Path: "/stdout"}, nil
	}
	if uriRegexp.MatchString(path) {
		u, err := url.Parse(path)
		if err != nil {
			return nil, err
		}
		return (*URI)(u), nil
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &URI{Scheme: string(FileScheme), Path: filepath.ToSlash(path)}, nil
}

func MustParseURI(path string) *URI {
	u, err := ParseURI(path)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URI) String() string {
	return (*url.URL)(&u).String()
}

func (u *URI) URL() *url.URL {
	return (*url.URL)(u)
}

func (u *URI) HasScheme(s Scheme) bool {
	return Scheme(u.Scheme) == s
}

func (u *URI) AppendPath(elem ...string) *URI {
	out := *u
	for _, el := range elem {
		out.Path = strings.TrimSuffix(out.Path, "/") + "/" + el
	}
	return &out
}

func (u *URI) Filepath() string {
	return filepath.FromSlash(u.Path)
}

func (u *URI) IsZero() bool {
	return *u == URI{}
}

func (u *URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *URI) UnmarshalText(b []byte) error {
	uri, err := ParseURI(string(b))
	if err != nil {
		return err
	}
	*u = *uri
	return nil
}
