package caliper_test

import (
	"errors"
	"testing"

	"github.com/c360studio/caliper/vocabulary/caliper"
)

func TestEntityTypeURI(t *testing.T) {
	tests := []struct {
		typ  caliper.EntityType
		want string
	}{
		{caliper.EntityPerson, "http://purl.imsglobal.org/caliper/v1/lis/Person"},
		{caliper.EntityCourseSection, "http://purl.imsglobal.org/caliper/v1/lis/CourseSection"},
		{caliper.EntityDigitalResource, "http://purl.imsglobal.org/caliper/v1/DigitalResource"},
		{caliper.EntityVideoObject, "http://purl.imsglobal.org/caliper/v1/VideoObject"},
		{caliper.EntityLtiSession, "http://purl.imsglobal.org/caliper/v1/LtiSession"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.URI(); got != tt.want {
				t.Errorf("URI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURIIsTotal(t *testing.T) {
	seen := make(map[string]caliper.EntityType)
	for _, typ := range caliper.EntityTypes() {
		uri := typ.URI()
		if prev, dup := seen[uri]; dup {
			t.Errorf("%s and %s share URI %s", prev, typ, uri)
		}
		seen[uri] = typ
	}
	for _, typ := range caliper.EventTypes() {
		if typ.URI() == "" {
			t.Errorf("%s has empty URI", typ)
		}
		if caliper.ContextFor(typ).URI() != caliper.ContextNamespace+string(typ) {
			t.Errorf("ContextFor(%s) = %s", typ, caliper.ContextFor(typ))
		}
	}
	for _, a := range caliper.Actions() {
		if a.URI() != caliper.ActionNamespace+string(a) {
			t.Errorf("%s URI = %s", a, a.URI())
		}
		if a.Key() == "" {
			t.Errorf("%s has no key", a)
		}
	}
}

func TestUnregisteredTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unregistered entity type")
		}
	}()
	_ = caliper.EntityType("Spaceship").URI()
}

func TestActionForKey(t *testing.T) {
	tests := []struct {
		key  string
		want caliper.Action
		ok   bool
	}{
		{"item.downloaded", caliper.ActionDownloaded, true},
		{"item.uploaded", caliper.ActionUploaded, true},
		{"session.loggedIn", caliper.ActionLoggedIn, true},
		{"session.loggedOut", caliper.ActionLoggedOut, true},
		{"navigation.navigatedTo", caliper.ActionNavigatedTo, true},
		{"media.started", caliper.ActionStarted, true},
		{"item.viewed", caliper.ActionViewed, true},
		{"unknown.key", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := caliper.ActionForKey(tt.key)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ActionForKey(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLookupActionUnknown(t *testing.T) {
	_, err := caliper.LookupAction("unknown.key")
	if !errors.Is(err, caliper.ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
	var uae *caliper.UnknownActionError
	if !errors.As(err, &uae) || uae.Key != "unknown.key" {
		t.Errorf("err = %#v", err)
	}
}

func TestParseAction(t *testing.T) {
	for _, in := range []string{"Downloaded", caliper.ActionNamespace + "Downloaded", "item.downloaded"} {
		got, err := caliper.ParseAction(in)
		if err != nil || got != caliper.ActionDownloaded {
			t.Errorf("ParseAction(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := caliper.ParseAction("Teleported"); err == nil {
		t.Error("ParseAction(Teleported) should fail")
	}
}

func TestParseTypes(t *testing.T) {
	et, err := caliper.ParseEntityType("http://purl.imsglobal.org/caliper/v1/lis/Person")
	if err != nil || et != caliper.EntityPerson {
		t.Errorf("ParseEntityType(iri) = %q, %v", et, err)
	}
	ev, err := caliper.ParseEventType("ReadingEvent")
	if err != nil || ev != caliper.EventReading {
		t.Errorf("ParseEventType = %q, %v", ev, err)
	}
	if _, err := caliper.ParseEventType("DreamEvent"); err == nil {
		t.Error("ParseEventType(DreamEvent) should fail")
	}
}

func TestContext(t *testing.T) {
	single := caliper.ContextURI(caliper.DefaultContext)
	if single.URI() != caliper.DefaultContext || single.IsZero() {
		t.Errorf("single context = %v", single)
	}

	mapped := caliper.ContextMappings(
		caliper.PrefixMapping{Prefix: "caliper", URI: caliper.Namespace},
		caliper.PrefixMapping{Prefix: "action", URI: caliper.ActionNamespace},
	)
	if mapped.URI() != "" {
		t.Errorf("mapping context URI = %q", mapped.URI())
	}
	m := mapped.Mappings()
	m[0].Prefix = "changed"
	if mapped.Mappings()[0].Prefix != "caliper" {
		t.Error("Mappings() exposed internal slice")
	}
	if mapped.Equal(single) || !mapped.Equal(caliper.ContextMappings(mapped.Mappings()...)) {
		t.Error("Equal mismatch")
	}
	if !(caliper.Context{}).IsZero() {
		t.Error("zero context should report IsZero")
	}
}
