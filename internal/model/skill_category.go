package model

import "strings"

// SkillCategory 固定的技能分类，分析提示词与查询均使用这一集合
type SkillCategory string

const (
	CategorySyntaxBasics      SkillCategory = "SYNTAX_BASICS"
	CategoryStreamsLambdas    SkillCategory = "STREAMS_LAMBDAS"
	CategoryOOP               SkillCategory = "OOP"
	CategoryCollections       SkillCategory = "COLLECTIONS"
	CategoryExceptionHandling SkillCategory = "EXCEPTION_HANDLING"
	CategoryFileHandling      SkillCategory = "FILE_HANDLING"
	CategoryDatabase          SkillCategory = "DATABASE"
	CategoryFrameworks        SkillCategory = "FRAMEWORKS"
	CategoryCleanCode         SkillCategory = "CLEAN_CODE"
	CategoryAlgorithms        SkillCategory = "ALGORITHMS"
	CategoryTesting           SkillCategory = "TESTING"
	CategoryBuildTools        SkillCategory = "BUILD_TOOLS"
	CategoryDesignPatterns    SkillCategory = "DESIGN_PATTERNS"
	CategoryConcurrency       SkillCategory = "CONCURRENCY"
	CategoryRESTAPI           SkillCategory = "REST_API"
)

type CategoryInfo struct {
	Category    SkillCategory `json:"category"`
	DisplayName string        `json:"displayName"`
	Description string        `json:"description"`
}

var Categories = []CategoryInfo{
	{CategorySyntaxBasics, "Basic Syntax & Core Concepts", "Fundamental Java syntax including loops, conditionals, and basic language features"},
	{CategoryStreamsLambdas, "Stream API & Lambdas", "Functional programming with Stream API and lambda expressions"},
	{CategoryOOP, "Object Oriented Programming", "OOP principles: encapsulation, inheritance, polymorphism, abstraction"},
	{CategoryCollections, "Collections & Data Structures", "Java Collections Framework: List, Set, Map, Queue and custom data structures"},
	{CategoryExceptionHandling, "Exception Handling", "Try-catch blocks, custom exceptions, and error management"},
	{CategoryFileHandling, "File Operations", "Reading/writing files: TXT, CSV, PDF, and file I/O operations"},
	{CategoryDatabase, "Database Operations", "JDBC, JPA, Hibernate, SQL queries, and database connectivity"},
	{CategoryFrameworks, "Frameworks & Libraries", "Spring Boot, Hibernate, and other Java frameworks"},
	{CategoryCleanCode, "Clean Code Principles", "Code quality, naming conventions, SOLID principles, refactoring"},
	{CategoryAlgorithms, "Algorithms & Problem Solving", "Sorting, searching, recursion, and algorithmic thinking"},
	{CategoryTesting, "Testing", "JUnit, Mockito, unit tests, integration tests, test-driven development"},
	{CategoryBuildTools, "Build Tools & Dependencies", "Maven, Gradle, dependency management, build lifecycle"},
	{CategoryDesignPatterns, "Design Patterns", "Singleton, Factory, Strategy, Observer and other design patterns"},
	{CategoryConcurrency, "Multithreading & Concurrency", "Threads, ExecutorService, synchronization, concurrent collections"},
	{CategoryRESTAPI, "REST API Development", "RESTful services, HTTP methods, API design, JSON processing"},
}

// ParseCategory looks up a category by its enum name, case-sensitively.
func ParseCategory(name string) (SkillCategory, bool) {
	for _, c := range Categories {
		if string(c.Category) == name {
			return c.Category, true
		}
	}
	return "", false
}

func (c SkillCategory) Info() (CategoryInfo, bool) {
	for _, info := range Categories {
		if info.Category == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

func (c SkillCategory) DisplayName() string {
	info, ok := c.Info()
	if !ok {
		return string(c)
	}
	return info.DisplayName
}

func (c SkillCategory) Description() string {
	info, _ := c.Info()
	return info.Description
}

// CategoryNames returns the enum names in declaration order.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c.Category)
	}
	return names
}

// CategoriesForPrompt formats the catalogue for the skill-analysis prompt.
func CategoriesForPrompt() string {
	var sb strings.Builder
	sb.WriteString("Available skill categories:\n")
	for _, c := range Categories {
		sb.WriteString("- ")
		sb.WriteString(string(c.Category))
		sb.WriteString(": ")
		sb.WriteString(c.DisplayName)
		sb.WriteString(" (")
		sb.WriteString(c.Description)
		sb.WriteString(")\n")
	}
	return sb.String()
}
