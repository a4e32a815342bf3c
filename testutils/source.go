package testutils

// SourceSample is a source text and the suppressions its annotations produce
type SourceSample struct {
	Name         string
	Code         string
	Suppressions map[string][]int
}

// SampleSources covers the annotation layouts the scanner must handle
var SampleSources = []SourceSample{
	{
		Name: "no annotation",
		Code: `public class Foo {
    int x;
}
`,
		Suppressions: map[string][]int{},
	},
	{
		Name: "annotation before code line",
		Code: `public class Foo {
    @REVIEWED:UnusedPrivateField: by jdoe
    private int x;
}
`,
		Suppressions: map[string][]int{"UnusedPrivateField": {3}},
	},
	{
		Name: "stacked annotations",
		Code: `@REVIEWED:ShortVariable:
@REVIEWED:UnusedLocalVariable:

int a = 1;
`,
		Suppressions: map[string][]int{"ShortVariable": {4}, "UnusedLocalVariable": {4}},
	},
	{
		Name: "annotation inside block comment",
		Code: `/*
@REVIEWED:SystemPrintln:
*/
System.out.println("x");
`,
		Suppressions: map[string][]int{},
	},
	{
		Name: "annotation skipping line comments",
		Code: `@REVIEWED:EmptyCatchBlock:
// explained below
// still explaining

try { run(); } catch (Exception e) {}
`,
		Suppressions: map[string][]int{"EmptyCatchBlock": {5}},
	},
	{
		Name: "dangling annotation",
		Code: `int x;
@REVIEWED:ShortVariable:

// nothing follows
`,
		Suppressions: map[string][]int{},
	},
}
