package scraper

import (
	"testing"
)

const indexHTML = `<html><head>
<script src="/js/jquery.js"></script>
<script type="text/javascript">
function change()
{
var sind=document.test.tsubject.selectedIndex;
if(document.test.tclass.value==1)
{
}
else if((document.test.tclass.value==9) && (document.test.tsubject.options[sind].text=="Mathematics"))
{
document.test.tbook.options[0].text="..Select Book Title..";
document.test.tbook.options[1].text="Mathematics";
document.test.tbook.options[1].value="textbook.php?iemh1=0-12";
document.test.tbook.options[2].text="Ganit";
document.test.tbook.options[2].value="textbook.php?ihmh1=0-12";
}
else if((document.test.tclass.value==10) && (document.test.tsubject.options[sind].text=="Science"))
{
document.test.tbook.options[0].text="..Select Book Title..";
document.test.tbook.options[1].text="Science";
document.test.tbook.options[1].value="textbook.php?jesc1=0-13";
document.test.tbook.options[2].text="Broken Entry";
document.test.tbook.options[2].value="textbook.php?jesc9";
}
else if((document.test.tclass.value==6) && (document.test.tsubject.options[sind].text=="English"))
{
document.test.tbook.options[1].text="Honeysuckle";
document.test.tbook.options[1].value="textbook.php?fehl1=0-10";
}
}
function load() {}
</script>
</head><body><form name="test"></form></body></html>`

func TestIndexScripts(t *testing.T) {
	script, err := IndexScripts(indexHTML)
	if err != nil {
		t.Fatalf("IndexScripts() error = %v", err)
	}
	if got := len(ParseBookSpecs(script, Filter{})); got != 4 {
		t.Errorf("parsed %d specs from scripts, want 4", got)
	}

	t.Run("page without inline scripts", func(t *testing.T) {
		raw := `document.test.tbook.options[1].text="X"`
		got, err := IndexScripts(raw)
		if err != nil || got != raw {
			t.Errorf("IndexScripts() = %q, %v", got, err)
		}
	})
}

func TestParseBookSpecs(t *testing.T) {
	script, _ := IndexScripts(indexHTML)

	t.Run("default classes", func(t *testing.T) {
		specs := ParseBookSpecs(script, Filter{Classes: []string{"9", "10", "11", "12"}})
		if len(specs) != 3 {
			t.Fatalf("got %d specs, want 3: %+v", len(specs), specs)
		}

		math := specs[0]
		want := BookSpec{
			Class:        "9",
			Subject:      "Mathematics",
			SubjectKey:   "mathematics",
			SubjectGroup: "Math",
			Title:        "Mathematics",
			Code:         "iemh1",
			RawValue:     "iemh1=0-12",
			ChapterCount: 12,
			SourceURL:    "https://ncert.nic.in/textbook.php?iemh1=0-12",
			Language:     "English",
			LanguageKey:  "english",
			Priority:     0,
		}
		if math != want {
			t.Errorf("spec = %+v\nwant %+v", math, want)
		}

		ganit := specs[1]
		if ganit.Language != "Hindi" || ganit.Priority != 1 || ganit.Code != "ihmh1" {
			t.Errorf("hindi edition = %+v", ganit)
		}

		if specs[2].Code != "jesc1" || specs[2].ChapterCount != 13 {
			t.Errorf("science spec = %+v", specs[2])
		}
	})

	tests := []struct {
		name   string
		filter Filter
		codes  []string
	}{
		{"subject filter ignores case", Filter{Subjects: []string{"SCIENCE"}}, []string{"jesc1"}},
		{"language filter", Filter{Classes: []string{"9"}, Languages: []string{"hindi"}}, []string{"ihmh1"}},
		{"class filter", Filter{Classes: []string{"6"}}, []string{"fehl1"}},
		{"nothing matches", Filter{Classes: []string{"12"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs := ParseBookSpecs(script, tt.filter)
			var codes []string
			for _, s := range specs {
				codes = append(codes, s.Code)
			}
			if len(codes) != len(tt.codes) {
				t.Fatalf("codes = %v, want %v", codes, tt.codes)
			}
			for i := range codes {
				if codes[i] != tt.codes[i] {
					t.Errorf("codes = %v, want %v", codes, tt.codes)
				}
			}
		})
	}
}
