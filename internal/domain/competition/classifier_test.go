package competition

import "testing"

func TestClassify_Categories(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(DefaultRules)

	cases := []struct {
		label string
		want  Category
	}{
		{"WORLD: World Cup", CategoryInternational},
		{"EUROPE: Champions League", CategoryContinentalClubs},
		{"EUROPE: Europa League - Play Offs", CategoryContinentalClubs},
		{"SOUTH AMERICA: Copa Libertadores", CategoryContinentalClubs},
		{"EUROPE: Euro", CategoryContinentalNations},
		{"AFRICA: Africa Cup of Nations", CategoryContinentalNations},
		{"WORLD: Nations League", CategoryInternational},
		{"ENGLAND: FA Cup", CategoryNational},
		{"GERMANY: DFB Pokal", CategoryNational},
		{"SPAIN: Copa del Rey", CategoryNational},
		{"PORTUGAL: Taca de Portugal", CategoryNational},
		{"ENGLAND: Premier League", CategoryOther},
		{"FRANCE: Ligue 1", CategoryOther},
	}

	for _, tc := range cases {
		if got := classifier.Classify(tc.label); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(DefaultRules)

	// "Club World Cup" contains both "world cup" and "club world cup";
	// the earlier "world cup" rule decides.
	if got := classifier.Classify("WORLD: Club World Cup"); got != CategoryInternational {
		t.Fatalf("expected international, got %q", got)
	}
}

func TestClassify_GenericCupFallsBackToNational(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(DefaultRules)

	for _, label := range []string{
		"NETHERLANDS: KNVB Beker Cup",
		"BRAZIL: Copa do Brasil",
		"AUSTRIA: OFB Pokal",
	} {
		if got := classifier.Classify(label); got != CategoryNational {
			t.Errorf("Classify(%q) = %q, want national", label, got)
		}
	}
}

func TestIsCup(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(DefaultRules)

	cups := []string{
		"ENGLAND: FA Cup",
		"EUROPE: Champions League",
		"FRANCE: Coupe de France",
		"ITALY: Coppa Italia",
	}
	for _, label := range cups {
		if !classifier.IsCup(label) {
			t.Errorf("IsCup(%q) = false, want true", label)
		}
	}

	leagues := []string{
		"ENGLAND: Premier League",
		"SPAIN: LaLiga",
		"GERMANY: Bundesliga",
	}
	for _, label := range leagues {
		if classifier.IsCup(label) {
			t.Errorf("IsCup(%q) = true, want false", label)
		}
	}
}

func TestPriority_ExplicitRulesOutrankFallback(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(DefaultRules)

	worldCup := classifier.Priority("WORLD: World Cup")
	faCup := classifier.Priority("ENGLAND: FA Cup")
	generic := classifier.Priority("BRAZIL: Copa do Brasil")

	if worldCup >= faCup {
		t.Fatalf("world cup (%d) must outrank fa cup (%d)", worldCup, faCup)
	}
	if faCup >= generic {
		t.Fatalf("fa cup (%d) must outrank generic cup (%d)", faCup, generic)
	}
}

func TestSplitCountry(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label   string
		country string
		name    string
	}{
		{"ENGLAND: Premier League", "ENGLAND", "Premier League"},
		{"SOUTH AMERICA: Copa Libertadores - Qualification", "SOUTH AMERICA", "Copa Libertadores - Qualification"},
		{"Premier League", "", "Premier League"},
		{"  FRANCE :  Ligue 1 ", "FRANCE", "Ligue 1"},
		{"", "", ""},
	}

	for _, tc := range cases {
		country, name := SplitCountry(tc.label)
		if country != tc.country || name != tc.name {
			t.Errorf("SplitCountry(%q) = (%q, %q), want (%q, %q)", tc.label, country, name, tc.country, tc.name)
		}
	}
}

func TestNormalize_StripsDiacriticsAndCase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Première Ligue", "premiere ligue"},
		{"Taça de Portugal", "taca de portugal"},
		{"Süper Lig", "super lig"},
		{"  Serie   A  ", "serie a"},
		{"COPA DEL REY", "copa del rey"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassify_DiacriticInsensitive(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(DefaultRules)

	if got := classifier.Classify("PORTUGAL: Taça de Portugal"); got != CategoryNational {
		t.Fatalf("expected national for accented cup name, got %q", got)
	}
}
