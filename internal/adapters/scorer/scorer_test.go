package scorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "face.jpg")
	if err := os.WriteFile(path, []byte("not-really-a-jpeg"), 0o600); err != nil {
		t.Fatalf("write temp image: %v", err)
	}
	return path
}

func TestHTTPScorer_Score(t *testing.T) {
	ctx := context.Background()
	imagePath := writeTempImage(t)

	Convey("Given an upstream that returns a numeric score", t, func() {
		var gotFields []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(8 << 20); err != nil {
				t.Errorf("upstream could not parse form: %v", err)
			}
			for field := range r.MultipartForm.File {
				gotFields = append(gotFields, field)
			}
			for field := range r.MultipartForm.Value {
				gotFields = append(gotFields, field)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"beauty_score": 4.2}`))
		}))
		defer srv.Close()

		s := NewHTTPScorer(srv.URL)

		Convey("Score returns the raw value", func() {
			score, err := s.Score(ctx, imagePath)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 4.2)

			Convey("and only the file field went upstream", func() {
				So(gotFields, ShouldResemble, []string{"file"})
			})
		})
	})

	Convey("Given an upstream that returns the score as a string", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"beauty_score": "3.85"}`))
		}))
		defer srv.Close()

		Convey("Score parses it", func() {
			score, err := NewHTTPScorer(srv.URL).Score(ctx, imagePath)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 3.85)
		})
	})

	Convey("Given an upstream that returns out-of-range values", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"beauty_score": 6.7}`))
		}))
		defer srv.Close()

		Convey("Score returns them unclamped; normalization is the caller's job", func() {
			score, err := NewHTTPScorer(srv.URL).Score(ctx, imagePath)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 6.7)
		})
	})

	Convey("Given an upstream that fails with a status code", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model exploded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		Convey("Score fails with ErrBadStatus carrying the upstream detail", func() {
			_, err := NewHTTPScorer(srv.URL).Score(ctx, imagePath)
			So(err, ShouldWrap, ErrBadStatus)
			So(err.Error(), ShouldContainSubstring, "500")
			So(err.Error(), ShouldContainSubstring, "model exploded")
		})
	})

	Convey("Given an upstream that returns a malformed score", t, func() {
		cases := map[string]string{
			"non-numeric string": `{"beauty_score": "gorgeous"}`,
			"null":               `{"beauty_score": null}`,
			"missing field":      `{}`,
			"object":             `{"beauty_score": {"value": 4}}`,
			"not json":           `beauty!`,
		}
		for name, body := range cases {
			body := body
			Convey("Score fails with ErrMalformedScore for "+name, func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte(body))
				}))
				defer srv.Close()

				_, err := NewHTTPScorer(srv.URL).Score(ctx, imagePath)
				So(err, ShouldWrap, ErrMalformedScore)
			})
		}
	})

	Convey("Given an unreachable upstream", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		Convey("Score fails with ErrUnavailable", func() {
			_, err := NewHTTPScorer(srv.URL).Score(ctx, imagePath)
			So(err, ShouldWrap, ErrUnavailable)
		})
	})

	Convey("Given an upstream slower than the configured timeout", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer func() {
			close(release)
			srv.Close()
		}()

		Convey("Score fails with ErrUnavailable instead of hanging", func() {
			s := NewHTTPScorer(srv.URL, WithTimeout(50*time.Millisecond))
			start := time.Now()
			_, err := s.Score(ctx, imagePath)
			So(err, ShouldWrap, ErrUnavailable)
			So(time.Since(start), ShouldBeLessThan, 5*time.Second)
		})
	})
}
