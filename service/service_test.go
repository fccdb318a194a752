package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/az-ai-labs/spellgraph/detect"
	"github.com/az-ai-labs/spellgraph/errormodel"
	"github.com/az-ai-labs/spellgraph/spell"
	"github.com/az-ai-labs/spellgraph/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const englishSample = `the quick brown fox jumps over the lazy dog and runs through
the green fields while children are playing near the river bank watching birds`

const russianSample = `быстрая рыжая лиса прыгает через ленивую собаку и бежит по
зелёным полям пока дети играют у берега реки наблюдая за птицами привет`

// seedStore opens a fresh store holding the given words at frequency 10.
func seedStore(t *testing.T, words ...string) *store.Store {
	t.Helper()
	st, err := store.Open(store.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	for _, w := range words {
		err := st.WriteForm(&store.WordForm{
			Word: w, IndexedID: st.NextIndexedID(), Freq: 10, Documents: 1,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	stEn := seedStore(t, "hello", "world")
	stRu := seedStore(t, "привет")

	det := detect.New()
	det.AddLanguage("english", englishSample, 500)
	det.AddLanguage("russian", russianSample, 500)

	models := errormodel.Default()

	checkers := spell.NewRegistry()
	ruModel, _ := models.Get("ru")
	enModel, _ := models.Get("en")
	if err := checkers.Add("english", spell.New(stEn, enModel, "english")); err != nil {
		t.Fatal(err)
	}
	if err := checkers.Add("russian", spell.New(stRu, ruModel, "russian")); err != nil {
		t.Fatal(err)
	}

	return New(Options{
		Detector:     det,
		Checkers:     checkers,
		DetectorPath: filepath.Join(t.TempDir(), "detector.bin"),
	})
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestErrorCheckExactHit(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/error_check?level=3", `{"request":{"t":"hello"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var reply map[string][]struct {
		Word     string `json:"word"`
		Language string `json:"language"`
		Forms    []struct {
			Word       string  `json:"word"`
			Freq       int64   `json:"freq"`
			Similarity float64 `json:"similarity"`
		} `json:"forms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	tokens := reply["t"]
	if len(tokens) != 1 || tokens[0].Word != "hello" {
		t.Fatalf("tokens = %+v", tokens)
	}
	if len(tokens[0].Forms) != 1 || tokens[0].Forms[0].Word != "hello" || tokens[0].Forms[0].Freq != 10 {
		t.Errorf("forms = %+v, want sole exact hit", tokens[0].Forms)
	}
}

func TestErrorCheckCorrectsMisspelling(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/error_check?level=2&lang=russian", `{"request":{"t":"превет"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var reply map[string][]struct {
		Forms []struct {
			Word string `json:"word"`
		} `json:"forms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatal(err)
	}
	forms := reply["t"][0].Forms
	if len(forms) == 0 || forms[0].Word != "привет" {
		t.Errorf("forms = %+v, want привет first", forms)
	}
}

func TestErrorCheckValidation(t *testing.T) {
	srv := newTestServer(t)

	if w := do(t, srv, http.MethodPost, "/error_check", `{not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: status %d, want 400", w.Code)
	}
	if w := do(t, srv, http.MethodPost, "/error_check?level=9", `{"request":{"t":"x"}}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad level: status %d, want 400", w.Code)
	}
	if w := do(t, srv, http.MethodPost, "/error_check?lang=klingon", `{"request":{"t":"x"}}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown language: status %d, want 404", w.Code)
	}
}

func TestTokenizeTagsLanguages(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/tokenize", `{"request":{"t":"hello привет hello"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var reply map[string][]struct {
		Word      string `json:"word"`
		Language  string `json:"language"`
		Positions []int  `json:"positions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatal(err)
	}
	tokens := reply["t"]
	if len(tokens) != 2 {
		t.Fatalf("tokens = %+v, want hello and привет", tokens)
	}
	if tokens[0].Word != "hello" || tokens[0].Language != "english" {
		t.Errorf("token 0 = %+v", tokens[0])
	}
	if len(tokens[0].Positions) != 2 {
		t.Errorf("hello positions = %v, want two occurrences", tokens[0].Positions)
	}
	if tokens[1].Word != "привет" || tokens[1].Language != "russian" {
		t.Errorf("token 1 = %+v", tokens[1])
	}
}

func TestConvertPreservesNonWords(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/convert", `{"request":{"t":"превет, world!"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var reply map[string]struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
		t.Fatal(err)
	}
	if got := reply["t"].Text; got != "привет, world!" {
		t.Errorf("converted = %q, want %q", got, "привет, world!")
	}
}

func TestAddLanguagePersistsDetector(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/add_language/german", "der schnelle braune fuchs springt über den faulen hund")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	if _, err := os.Stat(srv.detectorPath); err != nil {
		t.Errorf("detector file not persisted: %v", err)
	}

	if lang, _ := srv.detector.Detect("schnelle"); lang != "german" {
		t.Errorf("detect after training = %q, want german", lang)
	}

	if w := do(t, srv, http.MethodPost, "/add_language/empty", ""); w.Code != http.StatusBadRequest {
		t.Errorf("empty body: status %d, want 400", w.Code)
	}
}
