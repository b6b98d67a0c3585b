package e2e

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/tourofcourses/internal/ui/views"
)

const (
	expectedTitle     = "Tour of Courses"
	targetID          = 15
	targetName        = "Magneta"
	targetDashboardAt = 3
	nameSuffix        = "X"
	newName           = targetName + nameSuffix
)

type course struct {
	ID   int
	Name string
}

// fromLi reads "<id> <name>" out of a course list row
func fromLi(li *goquery.Selection) course {
	text := Text(li.Find("a").First())
	id, name, _ := strings.Cut(text, " ")
	n, _ := strconv.Atoi(id)
	return course{ID: n, Name: name}
}

// fromDetail reads the id from the first div and the name from the heading
func fromDetail(detail *goquery.Selection) course {
	idText := Text(detail.Find("div").First())
	n, _ := strconv.Atoi(idText[strings.Index(idText, " ")+1:])
	h2 := Text(detail.Find("h2"))
	return course{ID: n, Name: h2[:strings.LastIndex(h2, " ")]}
}

func allCourses(b *Browser) []course {
	var out []course
	b.Find("app-root app-courses li").Each(func(_ int, li *goquery.Selection) {
		out = append(out, fromLi(li))
	})
	return out
}

func courseLi(b *Browser, id int) *goquery.Selection {
	return b.Find("li span.badge").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return Text(s) == strconv.Itoa(id)
	}).Closest("li")
}

func expectDetail(t *testing.T, b *Browser, name string) {
	t.Helper()
	detail := b.Find("app-root app-course-detail > div")
	require.Equal(t, 1, detail.Length(), "shows course detail")
	assert.Equal(t, course{ID: targetID, Name: strings.ToUpper(name)}, fromDetail(detail))
}

func dashboardSelectTarget(t *testing.T, b *Browser) {
	t.Helper()
	top := b.Find("app-root app-dashboard > div h4").Eq(targetDashboardAt)
	require.Equal(t, targetName, Text(top))
	b.Click(top)
	expectDetail(t, b, targetName)
}

func updateNameInDetail(t *testing.T, b *Browser) {
	t.Helper()
	b.SendKeys(b.Find("input"), nameSuffix)
	expectDetail(t, b, newName)
}

func TestTour_InitialPage(t *testing.T) {
	app := StartApp(t)
	b := NewBrowser(t, app)
	b.Get("")

	assert.Equal(t, expectedTitle, b.Title())
	assert.Equal(t, expectedTitle, Text(b.Find("h1")))
	assert.Equal(t, []string{"Dashboard", "Courses"}, b.Texts("app-root nav a"))
	assert.Equal(t, 1, b.Find("app-root app-dashboard").Length(), "dashboard is the active view")
	assert.Equal(t, "/dashboard", b.Path())
}

func TestTour_Dashboard(t *testing.T) {
	app := StartApp(t)
	b := NewBrowser(t, app)
	b.Get("")

	t.Run("has top courses", func(t *testing.T) {
		assert.Equal(t, 4, b.Find("app-root app-dashboard > div h4").Length())
	})

	t.Run("selects and routes to details", func(t *testing.T) { dashboardSelectTarget(t, b) })
	t.Run("updates name in details view", func(t *testing.T) { updateNameInDetail(t, b) })

	t.Run("go back cancels the edit", func(t *testing.T) {
		b.ClickButton("go back")
		top := b.Find("app-root app-dashboard > div h4").Eq(targetDashboardAt)
		assert.Equal(t, targetName, Text(top))
	})

	t.Run("selects again", func(t *testing.T) { dashboardSelectTarget(t, b) })
	t.Run("updates name again", func(t *testing.T) { updateNameInDetail(t, b) })

	t.Run("save shows the new name on the dashboard", func(t *testing.T) {
		b.ClickButton("save")
		assert.Equal(t, "/dashboard", b.Path())
		top := b.Find("app-root app-dashboard > div h4").Eq(targetDashboardAt)
		assert.Equal(t, newName, Text(top))
	})
}

func TestTour_Courses(t *testing.T) {
	app := StartApp(t)
	b := NewBrowser(t, app)
	b.Get("")

	t.Run("switches to courses view", func(t *testing.T) {
		b.Click(b.Find("app-root nav a").Eq(1))
		assert.Equal(t, 1, b.Find("app-root app-courses").Length())
		assert.Equal(t, 10, b.Find("app-root app-courses li").Length(), "number of courses")
	})

	t.Run("routes to course details", func(t *testing.T) {
		b.Click(courseLi(b, targetID))
		expectDetail(t, b, targetName)
	})

	t.Run("updates name in details view", func(t *testing.T) { updateNameInDetail(t, b) })

	t.Run("shows the new name in the list", func(t *testing.T) {
		b.ClickButton("save")
		a := courseLi(b, targetID).Find("a")
		assert.Equal(t, strconv.Itoa(targetID)+" "+newName, Text(a))
	})

	t.Run("deletes from the list", func(t *testing.T) {
		before := allCourses(b)
		b.ClickButton("x", courseLi(b, targetID))

		assert.Equal(t, 1, b.Find("app-root app-courses").Length())
		after := allCourses(b)
		require.Len(t, after, 9, "number of courses")

		var expected []course
		for _, c := range before {
			if c.Name != newName {
				expected = append(expected, c)
			}
		}
		if diff := cmp.Diff(expected, after); diff != "" {
			t.Errorf("courses after delete (-want +got):\n%s", diff)
		}
	})

	t.Run("adds a course", func(t *testing.T) {
		before := allCourses(b)
		b.SendKeys(b.Find("input"), "Alice")
		b.ClickButton("add")

		after := allCourses(b)
		require.Len(t, after, len(before)+1, "number of courses")
		assert.Equal(t, before, after[:len(before)], "old courses are still there")
		maxID := before[len(before)-1].ID
		assert.Equal(t, course{ID: maxID + 1, Name: "Alice"}, after[len(before)])
	})

	t.Run("buttons carry the shared stylesheet", func(t *testing.T) {
		res, err := http.Get(app.URL + "/assets/styles.css")
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		css, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Contains(t, string(css), "font-family: Arial")
		assert.Contains(t, string(css), "padding: 5px 10px")
		assert.Contains(t, string(css), "border-radius: 4px")
	})
}

func TestTour_ProgressiveSearch(t *testing.T) {
	app := StartApp(t)
	b := NewBrowser(t, app)
	b.Get("")

	t.Run("searches for Ma", func(t *testing.T) {
		b.SendKeys(b.Find("#search-box"), "Ma")
		assert.Equal(t, 4, b.Find(".search-result li").Length())
	})

	t.Run("continues with g", func(t *testing.T) {
		b.SendKeys(b.Find("#search-box"), "g")
		assert.Equal(t, 2, b.Find(".search-result li").Length())
	})

	t.Run("continues with n and finds the target", func(t *testing.T) {
		b.SendKeys(b.Find("#search-box"), "n")
		results := b.Find(".search-result li")
		require.Equal(t, 1, results.Length())
		assert.Equal(t, targetName, Text(results.First()))
	})

	t.Run("navigates to the details view", func(t *testing.T) {
		b.Click(b.Find(".search-result li").First())
		expectDetail(t, b, targetName)
	})
}

func TestTour_Pages(t *testing.T) {
	app := StartApp(t)
	noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	res, err := noRedirect.Get(app.URL + "/")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/dashboard", res.Header.Get("Location"))

	res, err = http.Get(app.URL + "/no/such/page")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get(app.URL + "/api/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")

	b := NewBrowser(t, app)
	b.Get("/detail/15")
	expectDetail(t, b, targetName)

	t.Run("messages panel records calls and clears", func(t *testing.T) {
		assert.Contains(t, b.Texts("app-messages div div"), "CourseService: fetched course id=15")
		b.ClickButton("clear")
		assert.Equal(t, 0, b.Find("app-messages button").Length())
	})

	t.Run("history pops back", func(t *testing.T) {
		b.Click(b.Find("app-root nav a").Eq(1))
		require.Equal(t, "/courses", b.Path())
		b.PopState("/detail/15")
		expectDetail(t, b, targetName)
	})

	t.Run("unknown live navigation is ignored", func(t *testing.T) {
		b.send(views.Event{Kind: views.EventNavigate, Path: "/nowhere"})
		b.WaitIdle()
		assert.Equal(t, "/detail/15", b.Path())
	})
}
